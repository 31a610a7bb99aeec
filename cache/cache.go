package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/status-im/crypto-converter/metrics"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a fixed-capacity in-memory cache where every entry carries its
// own expiry. Expired entries stay readable through GetStale until they are
// evicted by capacity pressure or removed by PurgeOlderThan.
//
// All operations take the cache mutex and never block on anything else.
type TTLCache[V any] struct {
	name  string
	clock Clock

	mu  sync.Mutex
	lru *simplelru.LRU[string, entry[V]]
	// set while entries are removed explicitly so the eviction hook only
	// counts capacity evictions
	removing bool
}

// NewTTLCache creates a cache holding at most capacity entries. A nil clock
// means the system clock. Panics if capacity is not positive.
func NewTTLCache[V any](name string, capacity int, clock Clock) *TTLCache[V] {
	if capacity <= 0 {
		panic(fmt.Sprintf("cache %q: capacity must be positive, got %d", name, capacity))
	}
	if clock == nil {
		clock = SystemClock
	}

	c := &TTLCache[V]{
		name:  name,
		clock: clock,
	}
	lru, err := simplelru.NewLRU[string, entry[V]](capacity, func(key string, _ entry[V]) {
		if !c.removing {
			metrics.RecordCacheEvictions(name, "capacity", 1)
		}
	})
	if err != nil {
		panic(fmt.Sprintf("cache %q: %v", name, err))
	}
	c.lru = lru
	return c
}

// Name returns the cache name used in metrics and logs
func (c *TTLCache[V]) Name() string {
	return c.name
}

// Get returns the entry for key and whether it is still fresh.
// found is false when nothing is stored under key.
func (c *TTLCache[V]) Get(key string) (value V, fresh bool, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		metrics.RecordCacheLookup(c.name, metrics.CacheMiss)
		return value, false, false
	}

	fresh = !c.clock.Now().After(e.expiresAt)
	if fresh {
		metrics.RecordCacheLookup(c.name, metrics.CacheHit)
	} else {
		metrics.RecordCacheLookup(c.name, metrics.CacheStale)
	}
	return e.value, fresh, true
}

// GetStale returns the entry for key regardless of its freshness
func (c *TTLCache[V]) GetStale(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	return e.value, ok
}

// Put stores value under key until now+ttl, evicting the least recently used
// entry when the cache is full. Panics on a negative ttl.
func (c *TTLCache[V]) Put(key string, value V, ttl time.Duration) {
	if ttl < 0 {
		panic(fmt.Sprintf("cache %q: negative ttl %s", c.name, ttl))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, entry[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	})
	metrics.RecordCacheSize(c.name, c.lru.Len())
}

// Extend moves the expiry of an existing entry to now+d.
// Returns false if key is not cached.
func (c *TTLCache[V]) Extend(key string, d time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	if !ok {
		return false
	}
	e.expiresAt = c.clock.Now().Add(d)
	c.lru.Add(key, e)
	return true
}

// ExpiresAt returns the expiry of the entry under key
func (c *TTLCache[V]) ExpiresAt(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	return e.expiresAt, ok
}

// Delete removes key from the cache
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removing = true
	c.lru.Remove(key)
	c.removing = false
	metrics.RecordCacheSize(c.name, c.lru.Len())
}

// Len returns the number of entries, fresh or stale
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// PurgeOlderThan removes entries that expired more than retention ago and
// returns how many were removed
func (c *TTLCache[V]) PurgeOlderThan(retention time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.clock.Now().Add(-retention)
	removed := 0
	c.removing = true
	defer func() { c.removing = false }()
	for _, key := range c.lru.Keys() {
		e, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if e.expiresAt.Before(cutoff) {
			c.lru.Remove(key)
			removed++
		}
	}

	metrics.RecordCacheEvictions(c.name, "retention", removed)
	metrics.RecordCacheSize(c.name, c.lru.Len())
	return removed
}
