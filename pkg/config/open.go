package config

import (
	"context"
	"fmt"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
	"github.com/PigStep/vibe-idef0-front/pkg/store"
)

// OpenCache creates the configured render cache. fallbackDir is used by the
// file backend when cache.dir is empty.
func (c *Config) OpenCache(ctx context.Context, fallbackDir string) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheFile:
		dir := c.Cache.Dir
		if dir == "" {
			dir = fallbackDir
		}
		if dir == "" {
			return nil, fmt.Errorf("cache.dir is required for the file cache")
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.Cache.Redis)
	default:
		return cache.NewNullCache(), nil
	}
}

// Keyer returns the cache keyer, scoped when cache.scope is set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Scope)
}

// OpenStore creates the configured stored-diagram backend. When c is a real
// cache and store.cache_ttl is set, lookups go through a [store.CachedStore].
func (c *Config) OpenStore(ctx context.Context, cch cache.Cache) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch c.Store.Backend {
	case store.BackendMongo:
		s, err = store.NewMongoStore(ctx, c.Store.Mongo)
	default:
		s, err = store.NewFileStore(c.Store.DataDir)
	}
	if err != nil {
		return nil, err
	}

	if cch != nil && c.Cache.Backend != CacheNone && c.Store.CacheTTL > 0 {
		return store.NewCachedStore(s, cch, c.Keyer(), c.Store.CacheTTL), nil
	}
	return s, nil
}
