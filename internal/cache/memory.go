package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is a stored value with its expiry deadline.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache backed by a map with per-entry TTLs.
// It is safe for concurrent use and is shared by every request served by
// this process. In a multi-replica deployment each replica holds its own
// MemoryCache, so invalidation in one replica does not reach the others;
// use the Redis backend when that matters.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	timeFunc   func() time.Time // Injectable for testing
}

// Ensure MemoryCache implements the Cache interface
var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an in-process cache with the given default TTL.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: defaultTTL,
		timeFunc:   time.Now,
	}
}

// Get implements Cache.Get. Expired entries are removed lazily.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if c.timeFunc().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if current, ok := c.entries[key]; ok && c.timeFunc().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return entry.value, nil
}

// Set implements Cache.Set.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: c.timeFunc().Add(ttl),
	}
	c.mu.Unlock()

	return nil
}

// Delete implements Cache.Delete.
func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	return nil
}

// Ping implements Cache.Ping. An in-process map is always reachable.
func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

// Close implements Cache.Close.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()

	return nil
}
