// Package content caches public list fetches so the marketing pages stay
// responsive and keep rendering while the backend is briefly unreachable.
package content

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_content_cache_hits_total",
		Help: "Hits on the public content cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_content_cache_misses_total",
		Help: "Misses on the public content cache.",
	})
)

// Cache is an expiring LRU over public collections, keyed by listing name.
// Each portal instance has its own; there is no cross-instance invalidation,
// entries just age out.
type Cache struct {
	lru *expirable.LRU[string, any]
}

func NewCache(maxSize int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, any](maxSize, nil, ttl)}
}

func (c *Cache) get(key string) (any, bool) {
	val, ok := c.lru.Get(key)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

func (c *Cache) set(key string, val any) {
	c.lru.Add(key, val)
}

// Invalidate drops one listing, for use after an admin mutation so the
// public page reflects it on the next request.
func (c *Cache) Invalidate(key string) {
	if c != nil {
		c.lru.Remove(key)
	}
}

// Purge clears the whole cache, after an admin mutation whose affected
// listings cannot be enumerated.
func (c *Cache) Purge() {
	if c != nil {
		c.lru.Purge()
	}
}

// Cached serves key from the cache or falls through to fetch, storing the
// result on success. Fetch failures are returned as-is so callers can apply
// their own fallbacks.
func Cached[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if c != nil {
		if val, ok := c.get(key); ok {
			if items, ok := val.([]T); ok {
				return items, nil
			}
		}
	}
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.set(key, items)
	}
	return items, nil
}
