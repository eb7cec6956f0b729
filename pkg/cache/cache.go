// Package cache stores computed layouts and rendered artifacts.
//
// Layouts are the expensive part of a request: the radial layout runs the
// Graphviz engine. Rendered documents depend on the layout, the style
// configuration and the browser class, so they are cached separately under
// keys produced by a [Keyer].
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for server replicas
//   - [NullCache]: caching disabled
//
// All backends implement [Cache]. Backends that can enumerate their entries
// also implement [Clearer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
