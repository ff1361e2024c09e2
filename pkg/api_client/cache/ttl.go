package cache

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Clock is the time source used to decide expiry
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Entry is a stored value together with the moment it stops being served
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// TTLCache stores values until their caller-supplied TTL elapses on the injected clock.
// Loading on a miss is the caller's job. Capacity is unbounded; expired entries stay
// stored, and are never served, until DeleteExpired removes them.
type TTLCache[V any] struct {
	items *ttlcache.Cache[string, Entry[V]]
	clock Clock
	// mu serializes writers so a purge never removes an entry stored after its check
	mu sync.Mutex
}

// New creates an empty cache. A nil clock means RealClock.
func New[V any](clock Clock) *TTLCache[V] {
	if clock == nil {
		clock = RealClock{}
	}
	return &TTLCache[V]{
		items: ttlcache.New[string, Entry[V]](
			ttlcache.WithDisableTouchOnHit[string, Entry[V]](),
		),
		clock: clock,
	}
}

// Get returns the value for key unless it is absent or expired
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	item := c.items.Get(key)
	if item == nil {
		return zero, false
	}
	entry := item.Value()
	if !c.clock.Now().Before(entry.ExpiresAt) {
		return zero, false
	}
	return entry.Value, true
}

// Put stores value for ttl. A non-positive ttl stores nothing.
func (c *TTLCache[V]) Put(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Set(key, Entry[V]{Value: value, ExpiresAt: c.clock.Now().Add(ttl)}, ttlcache.NoTTL)
}

// Delete drops key
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Delete(key)
}

// Take drops key and returns what was stored, expired or not
func (c *TTLCache[V]) Take(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	item := c.items.Get(key)
	if item == nil {
		return zero, false
	}
	c.items.Delete(key)
	return item.Value().Value, true
}

// DeleteExpired removes every entry that is expired on the cache clock and returns how many
func (c *TTLCache[V]) DeleteExpired() int {
	return c.DeleteExpiredFunc(nil)
}

// DeleteExpiredFunc is DeleteExpired calling onRemove for every removed entry
func (c *TTLCache[V]) DeleteExpiredFunc(onRemove func(key string, value V)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	removed := 0
	for key, item := range c.items.Items() {
		entry := item.Value()
		if now.Before(entry.ExpiresAt) {
			continue
		}
		c.items.Delete(key)
		removed++
		if onRemove != nil {
			onRemove(key, entry.Value)
		}
	}
	return removed
}

// Len counts stored entries, including ones that expired but were not yet purged
func (c *TTLCache[V]) Len() int {
	return c.items.Len()
}
