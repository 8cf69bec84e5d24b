package client

import "errors"

var (
	// ErrServiceUnavailable indicates the prediction service is unreachable
	ErrServiceUnavailable = errors.New("prediction service unavailable")

	// ErrBadRequest indicates the service rejected the request as invalid
	ErrBadRequest = errors.New("prediction request rejected")

	// ErrInvalidResponse indicates the response body could not be decoded
	ErrInvalidResponse = errors.New("invalid response from prediction service")

	// ErrCircuitOpen indicates too many consecutive failures
	ErrCircuitOpen = errors.New("circuit breaker open")
)
