package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/diagramlab/diaglint/pkg/cache"
	"github.com/diagramlab/diaglint/pkg/config"
	"github.com/diagramlab/diaglint/pkg/pipeline"
)

// defaultCacheDir returns the file cache directory,
// ~/.cache/diaglint (or the platform equivalent).
func defaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "diaglint"), nil
}

// cacheDirFor resolves the effective file cache directory for cfg,
// preferring the configured override.
func cacheDirFor(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return defaultCacheDir()
}

// openCache builds the artifact cache selected by cfg. A setup failure
// degrades to the null cache rather than blocking the command; renders
// still work, just without reuse.
func openCache(ctx context.Context, cfg config.Config) cache.Cache {
	logger := loggerFromContext(ctx)

	switch cfg.Cache.Backend {
	case config.CacheBackendNone:
		return cache.NewNullCache()
	case config.CacheBackendRedis:
		c, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, "")
		if err != nil {
			logger.Warnf("Redis cache unavailable, continuing without cache: %v", err)
			return cache.NewNullCache()
		}
		return c
	default:
		dir, err := cacheDirFor(cfg)
		if err == nil {
			var c cache.Cache
			if c, err = cache.NewFileCache(dir); err == nil {
				return c
			}
		}
		logger.Warnf("File cache unavailable, continuing without cache: %v", err)
		return cache.NewNullCache()
	}
}

// newRunner loads the config and assembles the shared pipeline runner.
// The returned cleanup closes the cache backend.
func newRunner(ctx context.Context, configPath string) (*pipeline.Runner, config.Config, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	c := openCache(ctx, cfg)
	runner := pipeline.NewRunner(c, loggerFromContext(ctx))
	return runner, cfg, func() { _ = c.Close() }, nil
}
