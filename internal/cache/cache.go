// Package cache provides the key-value cache used by the list endpoints,
// with an in-process backend and a Redis backend selected by configuration.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a minimal key-value cache storing serialized responses as raw
// bytes with a per-entry TTL and explicit invalidation.
type Cache interface {
	// Get retrieves the value stored under key.
	// Returns ErrCacheMiss if the key is absent or its TTL has lapsed.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL.
	// A non-positive TTL falls back to the implementation default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the cache backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// Namespace identifies the API version a cached list response belongs to.
// Each version owns a distinct list key and is invalidated independently:
// a v1 write never touches the v2 key, so the v2 list may stay stale until
// its own TTL lapses or a v2 write occurs.
type Namespace string

// Cache namespaces, one per API version.
const (
	NamespaceV1 Namespace = "v1"
	NamespaceV2 Namespace = "v2"
)

// ListKey returns the cache key for the namespace's "list all posts" response.
func (n Namespace) ListKey() string {
	return string(n) + "_posts_list"
}
