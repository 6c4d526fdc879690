// Package cache provides the in-process time-to-live store used for
// knowledge-base reads. Entries live for the lifetime of the process only.
package cache

import (
	"sync"
	"time"
)

// Cache is a keyed store whose entries expire a fixed time after insertion.
//
// Reads and writes of a key are atomic. Concurrent misses on the same key
// may each run the compute function; the last result stored wins.
type Cache[V any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]entry[V]
	hits    uint64
	misses  uint64
}

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Option configures a Cache
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, used by tests to move time
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a cache whose entries expire after ttl
func New[V any](name string, ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		name:    name,
		ttl:     ttl,
		now:     o.now,
		entries: make(map[string]entry[V]),
	}
}

// Name returns the operation category the cache serves
func (c *Cache[V]) Name() string {
	return c.name
}

// TTL returns the entry lifetime
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the live value stored under key
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookup(key)
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.insertedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetOrCompute returns the live value for key, or runs compute and stores its result.
//
// A failed compute stores nothing and its error is returned unchanged.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	c.mu.RLock()
	v, ok := c.lookup(key)
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return v, nil
	}

	v, err := compute()
	if err != nil {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.misses++
	c.entries[key] = entry[V]{value: v, insertedAt: c.now()}
	c.mu.Unlock()
	return v, nil
}

// Purge drops expired entries and returns how many were removed
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for key, e := range c.entries {
		if !e.insertedAt.After(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, live or expired
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports lookups served from the cache and lookups that had to compute
type Stats struct {
	Name    string
	Entries int
	Hits    uint64
	Misses  uint64
}

// Stats returns a snapshot of the cache counters
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Name:    c.name,
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
