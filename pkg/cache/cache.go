// Package cache stores computed layouts and rendered artifacts keyed by a
// hash of their inputs.
//
// Three backends share the [Cache] interface: [FileCache] for the CLI,
// [RedisCache] for a shared server, and [NullCache] to disable caching. Keys
// come from a [Keyer] so the same layout request always maps to the same key
// no matter which backend stores it.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero ttl means no expiry.
// Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
