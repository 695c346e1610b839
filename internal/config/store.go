package config

import (
	"context"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/errors"
)

// Open connects the configured blob store. Network backends are pinged
// before Open returns.
func (s StoreConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch s.Backend {
	case BackendNull:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendRedis:
		rc, err := cache.DialRedis(ctx, s.Redis.Addr)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendMongo:
		mc, err := cache.DialMongo(ctx, s.Mongo.URI, s.Mongo.Database, s.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		if err := mc.EnsureIndexes(ctx); err != nil {
			_ = mc.Close()
			return nil, err
		}
		return mc, nil
	case BackendFile, "":
		dir := s.Dir
		if dir == "" {
			d, err := CacheDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "locate cache directory")
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open file store %s", dir)
		}
		return fc, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", s.Backend)
	}
}

// Keyer returns the key builder for the store, scoped by Prefix when set.
func (s StoreConfig) Keyer() cache.Keyer {
	if s.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), s.Prefix)
}
