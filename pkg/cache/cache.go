// Package cache stores emission results keyed by the content that produced
// them.
//
// A cached entry is the encoded record of one emission run. The key covers
// the layout, the technology tables and the target cell/view, so any change
// to an input yields a new key. Three implementations are provided:
//
//   - [FileCache]: one file per entry under a directory (CLI default,
//     ~/.cache/layoutwriter)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: caching disabled
//
// [Instrument] wraps any Cache so hits, misses and writes reach the
// registered observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TTLDesign is how long an emission record stays cached.
const TTLDesign = 7 * 24 * time.Hour
