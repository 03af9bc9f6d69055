// Package cache holds the read cache shared by the repositories.
//
// Entries expire after a fixed TTL. Writers never update entries selectively:
// any write to the underlying tables drops the whole cache.
package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a cached read stays valid.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is a coarse query cache. A nil *TTLCache is valid and caches nothing.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
	gen     uint64 // bumped by Invalidate
}

// New returns a cache whose entries live for ttl (DefaultTTL when ttl <= 0).
func New(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (c *TTLCache) WithClock(now func() time.Time) *TTLCache {
	c.now = now
	return c
}

// Get returns the live value stored under key. Expired entries are removed.
func (c *TTLCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for one TTL.
func (c *TTLCache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Generation identifies the current invalidation epoch.
func (c *TTLCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration stores value only when no Invalidate happened since gen
// was read. It reports whether the value was stored.
func (c *TTLCache) SetIfGeneration(key string, value any, gen uint64) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	return true
}

// Invalidate drops every entry and starts a new generation.
func (c *TTLCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.gen++
}

// Len counts stored entries, expired or not.
func (c *TTLCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key builds a cache key from a method name and its JSON-serialized parameters.
func Key(method string, params ...any) string {
	var b strings.Builder
	b.WriteString(method)
	for _, p := range params {
		b.WriteByte(':')
		raw, err := json.Marshal(p)
		if err != nil {
			fmt.Fprintf(&b, "%v", p)
			continue
		}
		b.Write(raw)
	}
	return b.String()
}

// Remember returns the cached value for key or stores the result of load.
// Errors are never cached, and neither is a result loaded across an
// Invalidate: it may predate the write that caused it.
func Remember[V any](c *TTLCache, key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(V); ok {
			return typed, nil
		}
	}
	gen := c.Generation()
	v, err := load()
	if err != nil {
		return v, err
	}
	c.SetIfGeneration(key, v, gen)
	return v, nil
}
