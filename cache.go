package trellis

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long one analysis snapshot stays valid.
const DefaultCacheTTL = 30 * time.Second

// Cache memoizes one Analysis snapshot keyed by workspace identity. It is
// an explicit handle rather than package state so tests can control time
// and identity deterministically. All-or-nothing: a hit short-circuits the
// whole pipeline, anything else reruns it fully.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	snapshot *Analysis
	identity string
	storedAt time.Time
}

// NewCache returns a Cache with the given TTL. A non-positive TTL falls
// back to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot when it matches identity and has not
// expired.
func (c *Cache) Get(identity string) (*Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil || c.identity != identity {
		return nil, false
	}
	if c.now().Sub(c.storedAt) > c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

// Put stores a snapshot for identity, replacing whatever was cached.
func (c *Cache) Put(identity string, a *Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = a
	c.identity = identity
	c.storedAt = c.now()
}

// Invalidate drops the cached snapshot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.identity = ""
}
