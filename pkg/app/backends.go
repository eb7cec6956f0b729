package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/cssgraph/pkg/cache"
	"github.com/matzehuels/cssgraph/pkg/config"
	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/store"
)

// redisPrefix namespaces cssgraph entries in a shared Redis.
const redisPrefix = config.AppName + ":"

// CacheDir returns the file cache directory: the configured one, or the XDG
// cache home ($XDG_CACHE_HOME/cssgraph, ~/.cache/cssgraph).
func CacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, config.AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", config.AppName), nil
}

// OpenCache opens the configured cache backend. The "none" backend and an
// unresolvable cache directory yield a [cache.NullCache].
func OpenCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, redisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "open redis cache")
		}
		return c, nil
	case config.BackendFile:
		dir, err := CacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cache: unknown backend %q", cfg.Backend)
	}
}

// StoreDir returns the file store directory: the configured one, or
// "graphs" below the XDG data home.
func StoreDir(cfg config.Store) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, config.AppName, "graphs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", config.AppName, "graphs"), nil
}

// OpenStore opens the configured graph store.
func OpenStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendFile:
		dir, err := StoreDir(cfg)
		if err != nil {
			return nil, fmt.Errorf("store dir: %w", err)
		}
		s, err := store.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMongo:
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "open mongo store")
		}
		return s, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "store: unknown backend %q", cfg.Backend)
	}
}
