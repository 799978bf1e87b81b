// Package cache provides a generic in-memory key/value store with per-entry
// expiry. Entries become invisible the moment their TTL elapses: expired
// entries are removed lazily on read and eagerly by a background sweep, so a
// reader can never observe a hit after expiry.
package cache

import (
	"sync"
	"time"
)

const (
	defaultTTL           = 30 * time.Second
	defaultSweepInterval = 60 * time.Second
)

// entry pairs a stored value with its absolute expiry time.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// config holds construction-time settings for a Cache.
type config struct {
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// Option configures a Cache before construction.
type Option func(*config)

// WithTTL sets the default time-to-live applied by Set.
// Default: 30 seconds.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		c.ttl = d
	}
}

// WithSweepInterval sets how often the background sweep scans for and deletes
// expired entries. Default: 60 seconds.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) {
		c.sweepInterval = d
	}
}

// WithClock overrides the time source. Intended for tests that need to
// control expiry deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// Cache is a thread-safe TTL cache. The zero value is not usable; construct
// instances with New. Values are opaque to the cache.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]

	ttl time.Duration
	now func() time.Time

	stopSweep chan struct{}
	closeOnce sync.Once
}

// New creates a Cache and starts its background sweep goroutine.
// Call Close to stop the sweeper when the cache is no longer needed.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	cfg := config{
		ttl:           defaultTTL,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Cache[K, V]{
		entries:   make(map[K]entry[V]),
		ttl:       cfg.ttl,
		now:       cfg.now,
		stopSweep: make(chan struct{}),
	}

	go c.sweepLoop(cfg.sweepInterval)

	return c
}

// Get returns the value stored under key if present and not expired.
// An expired entry is deleted as a side effect and reported as absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		c.deleteIfExpired(key)
		return zero, false
	}

	return e.value, true
}

// deleteIfExpired removes the entry stored under key only if it is still
// expired once the write lock is held. A writer may have refreshed the entry
// between the read and this call; that entry must survive.
func (c *Cache[K, V]) deleteIfExpired(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
	}
}

// Set stores value under key with the cache's default TTL,
// overwriting any previous entry unconditionally.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetTTL(key, value, c.ttl)
}

// SetTTL stores value under key with an explicit TTL,
// overwriting any previous entry unconditionally.
func (c *Cache[K, V]) SetTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Delete removes the entry stored under key. Missing keys are a no-op.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear empties the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close stops the background sweep goroutine. It is safe to call multiple times.
func (c *Cache[K, V]) Close() {
	c.closeOnce.Do(func() {
		close(c.stopSweep)
	})
}

// sweepLoop periodically removes expired entries so that keys written once
// and never re-read do not accumulate forever.
func (c *Cache[K, V]) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopSweep:
			return
		}
	}
}

// removeExpired deletes every entry whose expiry is not in the future.
func (c *Cache[K, V]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
