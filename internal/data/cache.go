package data

import (
	"fmt"
	"sync"

	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/metrics"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"
)

// CacheKey identifies one parsed price series.
type CacheKey struct {
	Year       int
	Resolution model.Resolution
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%d/%s", k.Year, k.Resolution)
}

// PriceCache memoizes parsed price series per (year, resolution) for the life
// of a process. Price files are treated as immutable for a given year, so
// entries never expire and the first writer wins.
//
// A nil series stored under a key records that no file exists for it; Get then
// reports ok with a nil series. A nil *PriceCache disables caching.
type PriceCache struct {
	mu    sync.RWMutex
	store map[CacheKey]*prices.Series
}

func NewPriceCache() *PriceCache {
	return &PriceCache{store: make(map[CacheKey]*prices.Series)}
}

// Get retrieves a cached series.
func (c *PriceCache) Get(key CacheKey) (*prices.Series, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	s, ok := c.store[key]
	c.mu.RUnlock()

	if ok {
		metrics.IncCache(metrics.CacheHit)
		logger.Debug("price cache hit", "key", key.String())
	} else {
		metrics.IncCache(metrics.CacheMiss)
	}
	return s, ok
}

// Set stores s unless key is already present, and returns the stored value.
// Concurrent loaders of the same key may both compute; only the first result
// is kept.
func (c *PriceCache) Set(key CacheKey, s *prices.Series) *prices.Series {
	if c == nil {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.store[key]; ok {
		return existing
	}
	c.store[key] = s
	return s
}

// Len is the number of cached keys.
func (c *PriceCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *PriceCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[CacheKey]*prices.Series)
}
