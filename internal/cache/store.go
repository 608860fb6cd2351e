package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by a Store when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// ErrCacheUnavailable indicates that the key-value store could not be reached
// or did not answer in time. It never leaves this package's Cache.
var ErrCacheUnavailable = errors.New("cache unavailable")

// Store is a raw byte-oriented key-value store with per-entry expiry.
type Store interface {
	// Get returns the stored bytes for key or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
