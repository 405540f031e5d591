// Package cache provides a small time-bounded memoization map.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value  V
	stored time.Time
}

// TTL holds values for a fixed duration after they were stored.
type TTL[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry[V]
	now   func() time.Time
}

// New creates a cache whose entries expire ttl after Set.
func New[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl:   ttl,
		items: make(map[string]entry[V]),
		now:   time.Now,
	}
}

// Get returns the value for key if it is present and not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.stored) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[V]{value: value, stored: c.now()}
	c.evictLocked()
}

// Clear drops every entry.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[V])
}

// Len returns the number of stored entries, expired ones included until the
// next Set.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *TTL[V]) evictLocked() {
	cutoff := c.now().Add(-c.ttl)
	for k, e := range c.items {
		if !e.stored.After(cutoff) {
			delete(c.items, k)
		}
	}
}
