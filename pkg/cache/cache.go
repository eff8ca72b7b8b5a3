// Package cache stores rendered diagram artifacts and encoded documents.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON entry file per key, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer]. The default keyer hashes its inputs so that
// any change to a document or to render options yields a new key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(docJSON), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// TTLs for each kind of cached value.
const (
	// TTLArtifact applies to rendered SVG, PNG and DOT output. Artifacts are
	// keyed by content hash, so they never go stale; the TTL only bounds disk use.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLDocument applies to encoded documents fetched from a store.
	TTLDocument = 10 * time.Minute
)

// Cache is a byte-oriented key/value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is reported as hit == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
