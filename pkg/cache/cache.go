// Package cache provides the storage backends used to memoise computed
// layouts.
//
// # Overview
//
// A layout is fully determined by its input graph and solver parameters, so
// results are cached under a key derived from both (see [Keyer]). Four
// backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: shared cache with a TTL index for expiry
//
// [Open] picks a backend from a location string: an empty string, a
// directory path, or a redis:// or mongodb:// URL.
//
// # Errors
//
// Backends report a miss as (nil, false, nil). Transient network failures of
// the remote backends are retried with [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// TTLs for cached data.
const (
	// TTLLayout is how long computed layouts stay cached. Layouts are
	// deterministic, so the TTL only bounds storage growth.
	TTLLayout = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
