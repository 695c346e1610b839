// Package cache provides the blob store contract that persisted layouts and
// rendered exports are kept in, plus its backends.
//
// # Backends
//
//   - [FileCache]: one JSON entry per key on local disk (CLI default)
//   - [MemoryCache]: in-process map, for tests and the API server without a store
//   - [RedisCache]: Redis via go-redis
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing
//
// Keys are built by a [Keyer] so that every backend shares one key space:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey("acme", "north-dc")   // "layout:acme:north-dc"
//	err := store.Set(ctx, key, data, cache.LayoutTTL)
//
// Backends that talk to a network mark transient failures with [Retryable]
// so callers can use [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Cache is a key-value blob store with optional expiry.
type Cache interface {
	// Get returns the data stored under key. A missing or expired key is a
	// miss (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// List returns the live keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// TTLs for the entries this module writes.
const (
	// LayoutTTL keeps saved layouts until they are deleted.
	LayoutTTL time.Duration = 0

	// ExportTTL bounds how long rendered exports are reused.
	ExportTTL = 24 * time.Hour
)
