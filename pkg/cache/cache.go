// Package cache stores rendered artifacts keyed by content hash.
//
// Backends:
//   - [NewNullCache]: no-op, used with --no-cache and in tests
//   - [FileCache]: one file per entry under the XDG cache dir, used by the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys come from a [Keyer]; the default keyer hashes the canonical diagram
// JSON together with every option that affects the output, so identical
// requests hit the same entry.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// ArtifactTTL bounds how long a rendered document is reused.
	ArtifactTTL = 7 * 24 * time.Hour
	// PreviewTTL is shorter; previews depend on the installed Graphviz.
	PreviewTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get returns hit=false with a nil error on a miss. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewNullCache returns a cache that stores nothing; every Get is a miss.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                     { return nil }
func (nullCache) Close() error                                             { return nil }
