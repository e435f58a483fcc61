// Package mutex implements short-lived per-worker advisory locks and
// idempotency markers on top of a TTL key/value cache.
//
// The only correctness-critical primitive is TryAcquire: an atomic
// create-if-absent. Everything else is best-effort; entries may expire early
// under memory pressure, which callers treat as a rare false negative, not a
// fault.
package mutex

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	lockPrefix = "lock:"
	seenPrefix = "seen:"
)

// Cache is a process-local TTL store. For a multi-instance deployment the
// same contract maps onto any conditional-write store (SETNX with expiry);
// nothing heavier is warranted at this system's scale.
type Cache struct {
	store *cache.Cache
}

// New creates a Cache whose janitor sweeps expired entries at the given
// interval.
func New(cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

// TryAcquire atomically creates key if no live entry exists and reports
// whether the caller now holds it. A crashed holder self-heals when the TTL
// lapses.
func (c *Cache) TryAcquire(key string, ttl time.Duration) bool {
	return c.store.Add(key, struct{}{}, ttl) == nil
}

// Release deletes key. Releasing an absent or already-expired key is a no-op.
func (c *Cache) Release(key string) {
	c.store.Delete(key)
}

// Put stores value under key for ttl, overwriting any live entry.
func (c *Cache) Put(key string, value string, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Exists reports whether a live entry exists for key.
func (c *Cache) Exists(key string) bool {
	_, found := c.store.Get(key)
	return found
}

// LockKey is the advisory-lock key for a worker.
func LockKey(workerID string) string {
	return lockPrefix + workerID
}

// SeenKey is the idempotency-marker key for a worker.
func SeenKey(workerID string) string {
	return seenPrefix + workerID
}
