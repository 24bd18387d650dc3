package discovery

import (
	"sync"
	"sync/atomic"
	"time"
)

// instanceCache holds resolved instance addresses per service for a TTL.
type instanceCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	metrics struct {
		hits      atomic.Int64
		misses    atomic.Int64
		updates   atomic.Int64
		evictions atomic.Int64
	}
}

type cacheEntry struct {
	addrs   []string
	updated time.Time
}

func newInstanceCache(ttl time.Duration) *instanceCache {
	return &instanceCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached instances of service while they are fresh.
func (c *instanceCache) get(service string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[service]
	if !ok || time.Since(e.updated) > c.ttl {
		c.metrics.misses.Add(1)
		return nil, false
	}
	c.metrics.hits.Add(1)
	return e.addrs, true
}

func (c *instanceCache) put(service string, addrs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[service] = cacheEntry{addrs: addrs, updated: time.Now()}
	c.metrics.updates.Add(1)
}

// evict drops service, e.g. after its instances stopped answering.
func (c *instanceCache) evict(service string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[service]; ok {
		delete(c.entries, service)
		c.metrics.evictions.Add(1)
	}
}

func (c *instanceCache) stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hits := c.metrics.hits.Load()
	misses := c.metrics.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = (float64(hits) / float64(total)) * 100.0
	}

	services := make(map[string]any, len(c.entries))
	for name, e := range c.entries {
		services[name] = map[string]any{
			"instances":   e.addrs,
			"age_seconds": time.Since(e.updated).Seconds(),
			"is_expired":  time.Since(e.updated) > c.ttl,
		}
	}

	return map[string]any{
		"size":         len(c.entries),
		"ttl_seconds":  c.ttl.Seconds(),
		"cache_hits":   hits,
		"cache_misses": misses,
		"hit_rate":     hitRate,
		"updates":      c.metrics.updates.Load(),
		"evictions":    c.metrics.evictions.Load(),
		"services":     services,
	}
}
