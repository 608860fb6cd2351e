package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	"github.com/phrazzld/tasks-api/internal/platform/redis"
	"github.com/phrazzld/tasks-api/internal/redact"
)

const metricsNamespace = "tasks_api"

// newCacheStore builds the backing store for the configured driver.
// The "none" driver returns a nil store.
func newCacheStore(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		return redis.NewStore(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		}), nil

	case config.CacheDriverMemory:
		mcfg := memory.DefaultConfig()
		mcfg.Capacity = cfg.MemoryCapacity
		mcfg.NumShards = cfg.MemoryShards
		if cfg.TTL > mcfg.MaxTTL {
			mcfg.MaxTTL = cfg.TTL
		}
		return memory.NewStore(mcfg), nil

	case config.CacheDriverNone, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// setupCache builds the cache façade. An unreachable cache is logged and
// kept: every call fails open until it comes back.
func setupCache(
	ctx context.Context,
	cfg config.CacheConfig,
	reg prometheus.Registerer,
	logger *slog.Logger,
) (*cache.StoreCache, error) {
	store, err := newCacheStore(cfg)
	if err != nil {
		return nil, err
	}

	c := cache.New(store, cache.Options{
		OperationTimeout: cfg.OperationTimeout,
		Metrics:          cache.NewMetrics(metricsNamespace, reg),
	}, logger)

	if !c.Enabled() {
		logger.Info("cache disabled")
		return c, nil
	}

	if err := c.Ping(ctx); err != nil {
		logger.Warn("cache unreachable at startup, continuing without it",
			"driver", cfg.Driver,
			"error", redact.Error(err))
	} else {
		logger.Info("cache ready", "driver", cfg.Driver, "ttl", cfg.TTL)
	}
	return c, nil
}
