package store

import (
	"context"
	"time"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/observability"
)

// DefaultCacheTTL bounds how long a stored document is served from cache.
const DefaultCacheTTL = 5 * time.Minute

const keyTypeVariant = "variant"

// CachedStore is a read-through cache in front of another store.
// Misses are not cached, so a document added later is served at once.
type CachedStore struct {
	Store
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCachedStore wraps inner. A nil keyer means the default keyer and a
// zero ttl means DefaultCacheTTL.
func NewCachedStore(inner Store, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{Store: inner, cache: c, keyer: keyer, ttl: ttl}
}

// Get serves variant from the cache, falling back to the wrapped store.
func (s *CachedStore) Get(ctx context.Context, variant string) ([]byte, error) {
	if err := errors.ValidateVariant(variant); err != nil {
		return nil, err
	}
	key := s.keyer.VariantKey(s.Store.Name(), variant)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeVariant)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeVariant)

	data, err := s.Store.Get(ctx, variant)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeVariant, len(data))
	}
	return data, nil
}

// Put writes through and drops the cached copy.
func (s *CachedStore) Put(ctx context.Context, variant string, data []byte) error {
	if err := s.Store.Put(ctx, variant, data); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.keyer.VariantKey(s.Store.Name(), variant))
}

// Close closes the wrapped store. The cache is owned by the caller.
func (s *CachedStore) Close() error {
	return s.Store.Close()
}

var _ Store = (*CachedStore)(nil)
