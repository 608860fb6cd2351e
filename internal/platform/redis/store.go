// Package redis implements cache.Store on a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/tasks-api/internal/cache"
)

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// Store is a cache.Store backed by a go-redis client.
// Keys are written verbatim, without a prefix, so other services sharing
// the instance see the same entries.
type Store struct {
	client *goredis.Client
}

var _ cache.Store = (*Store)(nil)

// NewStore creates a Store. The connection is established lazily; use Ping
// to check reachability.
func NewStore(cfg Config) *Store {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolTimeout:  2 * time.Second,
		// Commands are already bounded by the caller's context deadline.
		ContextTimeoutEnabled: true,
	})
	return &Store{client: client}
}

// NewStoreFromClient wraps an existing client.
func NewStoreFromClient(client *goredis.Client) *Store {
	if client == nil {
		panic("client cannot be nil")
	}
	return &Store{client: client}
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, cache.ErrCacheMiss
		}
		return nil, mapError("get", err)
	}
	return data, nil
}

// Set implements cache.Store. A non-positive ttl stores the value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return mapError("set", err)
	}
	return nil
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return mapError("delete", err)
	}
	return nil
}

// Ping implements cache.Store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return mapError("ping", err)
	}
	return nil
}

// Close implements cache.Store.
func (s *Store) Close() error {
	return s.client.Close()
}

func mapError(op string, err error) error {
	return fmt.Errorf("%w: redis %s: %w", cache.ErrCacheUnavailable, op, err)
}
