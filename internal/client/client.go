// Package client is the HTTP client for the Pitwall prediction service,
// with retries, rate limiting, a circuit breaker, and response caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/models"
)

// Client is an HTTP client for the Pitwall prediction service.
type Client struct {
	transport *rateLimitedTransport
	baseURL   string
	logger    *logrus.Logger
}

// New creates a new prediction service client.
func New(cfg *config.ClientConfig, logger *logrus.Logger) *Client {
	tc := DefaultTransportConfig()
	if cfg.RequestTimeoutSeconds > 0 {
		tc.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}
	if cfg.RetryAttempts > 0 {
		tc.MaxRetries = cfg.RetryAttempts
	}
	if cfg.RateLimit > 0 {
		tc.RateLimit = cfg.RateLimit
	}

	return &Client{
		transport: newRateLimitedTransport(tc, nil),
		baseURL:   cfg.BaseURL,
		logger:    logger,
	}
}

// PredictPitStop requests a pit-window prediction for a stint.
func (c *Client) PredictPitStop(ctx context.Context, req *models.PitStopRequest) (*models.PitStopResponse, error) {
	var resp models.PitStopResponse
	if err := c.post(ctx, "/predict/pitstop", req, &resp); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"optimal_pit_lap": resp.OptimalPitLap,
		"confidence":      resp.Confidence,
		"laps_analyzed":   resp.LapsAnalyzed,
	}).Debug("Pit stop prediction received")
	return &resp, nil
}

// ProjectStrategy requests a strategy impact projection.
func (c *Client) ProjectStrategy(ctx context.Context, req *models.StrategyImpactRequest) (*models.StrategyImpact, error) {
	var resp models.StrategyImpact
	if err := c.post(ctx, "/strategy/impact", req, &resp); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"target_driver":      req.TargetDriverID,
		"projected_position": resp.ProjectedPosition,
		"position_change":    resp.PositionChange,
	}).Debug("Strategy impact received")
	return &resp, nil
}

// HealthCheck checks prediction service health.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr models.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%w: %s", ErrBadRequest, apiErr.Error)
		}
		return fmt.Errorf("%w: status %d: %s", ErrBadRequest, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
