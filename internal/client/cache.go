package client

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// predictionCache provides in-memory caching of responses keyed by request
// content. Predictions are deterministic for identical inputs, so cached
// replies stay valid for their whole TTL.
type predictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

func newPredictionCache(ttl time.Duration, maxSize int) *predictionCache {
	return &predictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// requestKey builds a stable cache key from an arbitrary request payload.
func requestKey(prefix string, req any) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash)
}

func (pc *predictionCache) get(key string) (any, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if result, found := pc.cache.Get(key); found {
		pc.hitCount++
		return result, true
	}
	pc.missCount++
	return nil, false
}

func (pc *predictionCache) set(key string, value any) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
	}
	pc.cache.Set(key, value, pc.ttl)
}

// stats returns hit count, miss count, and hit ratio.
func (pc *predictionCache) stats() (uint64, uint64, float64) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.hitCount + pc.missCount
	if total == 0 {
		return 0, 0, 0
	}
	return pc.hitCount, pc.missCount, float64(pc.hitCount) / float64(total)
}
