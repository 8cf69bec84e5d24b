package client

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/models"
)

// CachedClient wraps Client with response caching. The service computes a
// pure function of the request, so identical requests within the TTL are
// served locally. The service itself stays stateless.
type CachedClient struct {
	*Client
	cache  *predictionCache
	logger *logrus.Logger
}

// NewCachedClient creates a caching prediction service client.
func NewCachedClient(cfg *config.ClientConfig, logger *logrus.Logger) *CachedClient {
	ttl := 60 * time.Second
	if cfg.CacheTTLSeconds > 0 {
		ttl = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}
	maxSize := cfg.CacheMaxSize
	if maxSize <= 0 {
		maxSize = 1000
	}

	return &CachedClient{
		Client: New(cfg, logger),
		cache:  newPredictionCache(ttl, maxSize),
		logger: logger,
	}
}

// PredictPitStop returns a cached prediction when available.
func (c *CachedClient) PredictPitStop(ctx context.Context, req *models.PitStopRequest) (*models.PitStopResponse, error) {
	key := requestKey("pitstop", req)
	if v, ok := c.cache.get(key); ok {
		if resp, ok := v.(*models.PitStopResponse); ok {
			c.logger.WithField("cache_hit", true).Debug("Pit stop prediction served from cache")
			return resp, nil
		}
	}

	resp, err := c.Client.PredictPitStop(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, resp)
	return resp, nil
}

// ProjectStrategy returns a cached projection when available.
func (c *CachedClient) ProjectStrategy(ctx context.Context, req *models.StrategyImpactRequest) (*models.StrategyImpact, error) {
	key := requestKey("strategy", req)
	if v, ok := c.cache.get(key); ok {
		if resp, ok := v.(*models.StrategyImpact); ok {
			c.logger.WithField("cache_hit", true).Debug("Strategy impact served from cache")
			return resp, nil
		}
	}

	resp, err := c.Client.ProjectStrategy(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, resp)
	return resp, nil
}

// GetCacheStats returns cache hit count, miss count, and hit ratio.
func (c *CachedClient) GetCacheStats() (uint64, uint64, float64) {
	return c.cache.stats()
}
