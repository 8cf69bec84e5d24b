package client

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// TransportConfig holds configuration for the underlying HTTP transport
type TransportConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // max consecutive failures before circuit break
}

// DefaultTransportConfig returns recommended defaults
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Timeout:           10 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         10.0,
		CircuitBreakerMax: 5,
	}
}

// rateLimitedTransport wraps retryablehttp.Client with rate limiting and a
// consecutive-failure circuit breaker.
type rateLimitedTransport struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	consecutiveErrors int
	isOpen            bool
	lastError         error
	logger            *log.Logger
}

func newRateLimitedTransport(cfg TransportConfig, logger *log.Logger) *rateLimitedTransport {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = logger

	return &rateLimitedTransport{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		logger:            logger,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaking.
func (t *rateLimitedTransport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if t.isOpen {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, t.lastError)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(retryReq.WithContext(ctx))

	if err != nil {
		t.consecutiveErrors++
		t.lastError = err
		if t.consecutiveErrors >= t.circuitBreakerMax {
			t.isOpen = true
			t.logger.Printf("Circuit breaker opened after %d consecutive errors: %v", t.consecutiveErrors, err)
		}
		return nil, err
	}

	if resp.StatusCode < 500 {
		t.consecutiveErrors = 0
		t.isOpen = false
	}

	return resp, nil
}

// Close closes any resources held by the transport.
func (t *rateLimitedTransport) Close() error {
	t.client.HTTPClient.CloseIdleConnections()
	return nil
}

// retryPolicy retries network errors, 429s, and 5xx responses; other client
// errors are terminal.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return true, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}
