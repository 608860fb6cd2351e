package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// DefaultOperationTimeout bounds a single store call when no timeout is configured.
const DefaultOperationTimeout = 250 * time.Millisecond

// Cache is a JSON cache that never fails its callers.
type Cache interface {
	// Get decodes the value stored under key into dest and reports whether
	// it did. Any store or decode failure is reported as a miss.
	Get(ctx context.Context, key string, dest any) bool

	// Set encodes value as JSON and stores it under key for ttl.
	// Failures are logged and dropped.
	Set(ctx context.Context, key string, value any, ttl time.Duration)

	// Delete removes keys. Failures are logged and dropped.
	Delete(ctx context.Context, keys ...string)
}

// Options tunes a StoreCache.
type Options struct {
	// OperationTimeout bounds each store call. Zero means DefaultOperationTimeout.
	OperationTimeout time.Duration
	// Metrics is optional.
	Metrics *Metrics
}

// StoreCache implements Cache on top of a Store.
// A StoreCache without a store treats every lookup as a miss and every
// write as a no-op.
type StoreCache struct {
	store   Store
	timeout time.Duration
	metrics *Metrics
	logger  *slog.Logger
}

var _ Cache = (*StoreCache)(nil)

// New creates a StoreCache backed by store. A nil store yields a disabled cache.
func New(store Store, opts Options, log *slog.Logger) *StoreCache {
	if log == nil {
		log = slog.Default()
	}
	timeout := opts.OperationTimeout
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	return &StoreCache{
		store:   store,
		timeout: timeout,
		metrics: opts.Metrics,
		logger:  log.With(slog.String("component", "cache")),
	}
}

// NewNoop creates a disabled cache: every Get misses, Set and Delete do nothing.
func NewNoop(log *slog.Logger) *StoreCache {
	return New(nil, Options{}, log)
}

// Enabled reports whether the cache has a backing store.
func (c *StoreCache) Enabled() bool {
	return c.store != nil
}

// Get implements Cache.
func (c *StoreCache) Get(ctx context.Context, key string, dest any) bool {
	if c.store == nil {
		c.metrics.miss()
		return false
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.store.Get(opCtx, key)
	if err != nil {
		c.metrics.miss()
		if errors.Is(err, ErrCacheMiss) {
			log.Debug("cache miss", slog.String("key", key))
			return false
		}
		c.metrics.failure("get")
		log.Warn("cache read failed, falling back to database",
			slog.String("key", key),
			slog.Any("error", unavailable(err)))
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.metrics.miss()
		c.metrics.failure("decode")
		log.Warn("cached value could not be decoded, ignoring it",
			slog.String("key", key),
			slog.Any("error", err))
		return false
	}

	c.metrics.hit()
	log.Debug("cache hit", slog.String("key", key))
	return true
}

// Set implements Cache.
func (c *StoreCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.store == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	data, err := json.Marshal(value)
	if err != nil {
		c.metrics.failure("encode")
		log.Warn("value could not be encoded for caching",
			slog.String("key", key),
			slog.Any("error", err))
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.Set(opCtx, key, data, ttl); err != nil {
		c.metrics.failure("set")
		log.Warn("cache write failed",
			slog.String("key", key),
			slog.Any("error", unavailable(err)))
		return
	}
	log.Debug("cache populated", slog.String("key", key), slog.Duration("ttl", ttl))
}

// Delete implements Cache.
func (c *StoreCache) Delete(ctx context.Context, keys ...string) {
	if c.store == nil || len(keys) == 0 {
		return
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.Delete(opCtx, keys...); err != nil {
		c.metrics.failure("delete")
		log.Warn("cache invalidation failed, entries will expire by ttl",
			slog.Any("keys", keys),
			slog.Any("error", unavailable(err)))
		return
	}
	c.metrics.invalidated(len(keys))
	log.Debug("cache invalidated", slog.Any("keys", keys))
}

// Ping checks the backing store. A disabled cache is always healthy.
func (c *StoreCache) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.Ping(opCtx); err != nil {
		return unavailable(err)
	}
	return nil
}

// Close closes the backing store.
func (c *StoreCache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

func unavailable(err error) error {
	if errors.Is(err, ErrCacheUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
}
