package cache

import (
	"context"
	"sync"
	"time"

	"github.com/visualmatch/backend/internal/domain"
)

// entry is a single cached analysis with its expiration
type entry struct {
	analysis   *domain.Analysis
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory analysis cache with TTL support.
// Keys are image URLs; values are the adapted analyses, so a repeated URL
// search skips the vision call entirely.
type MemoryCache struct {
	data  map[string]entry
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory analysis cache
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]entry),
	}

	// Remove expired entries every 10 minutes
	go c.cleanupExpired()

	return c
}

// Get retrieves an analysis from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.Analysis, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(e.expiration) {
		return nil, domain.ErrCacheMiss
	}

	return e.analysis, nil
}

// Set stores an analysis in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, analysis *domain.Analysis, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = entry{
		analysis:   analysis,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, e := range c.data {
			if now.After(e.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
