// Package memory implements cache.Store inside the process using sturdyc.
// It serves single-instance deployments and local development where no
// Redis server is available.
package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/phrazzld/tasks-api/internal/cache"
)

// Config holds the sturdyc sizing parameters.
type Config struct {
	// Capacity is the maximum number of entries kept.
	Capacity int
	// NumShards splits the entries across independently locked shards.
	NumShards int
	// MaxTTL is the longest lifetime any entry can have.
	MaxTTL time.Duration
	// EvictionPercentage is the share of entries dropped when full.
	EvictionPercentage int
}

// DefaultConfig returns settings suitable for a single API instance.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          8,
		MaxTTL:             5 * time.Minute,
		EvictionPercentage: 10,
	}
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store is a cache.Store held in process memory.
//
// sturdyc applies a single TTL to its whole client, so each entry also
// records its own deadline; per-entry TTLs longer than MaxTTL are capped.
type Store struct {
	client *sturdyc.Client[entry]
	now    func() time.Time
	closed atomic.Bool
}

var _ cache.Store = (*Store)(nil)

var errClosed = errors.New("memory store closed")

// NewStore creates a Store, filling zero config fields from DefaultConfig.
func NewStore(cfg Config) *Store {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = def.NumShards
	}
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = def.MaxTTL
	}
	if cfg.EvictionPercentage <= 0 || cfg.EvictionPercentage > 100 {
		cfg.EvictionPercentage = def.EvictionPercentage
	}

	return &Store{
		client: sturdyc.New[entry](cfg.Capacity, cfg.NumShards, cfg.MaxTTL, cfg.EvictionPercentage),
		now:    time.Now,
	}
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	e, ok := s.client.Get(key)
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.client.Delete(key)
		return nil, cache.ErrCacheMiss
	}
	return append([]byte(nil), e.data...), nil
}

// Set implements cache.Store. A non-positive ttl keeps the entry for MaxTTL.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	e := entry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.client.Set(key, e)
	return nil
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	for _, k := range keys {
		s.client.Delete(k)
	}
	return nil
}

// Ping implements cache.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.check(ctx)
}

// Close implements cache.Store. Later calls fail as unavailable.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

// Len returns the number of entries held, expired ones included.
func (s *Store) Len() int {
	return s.client.Size()
}

func (s *Store) check(ctx context.Context) error {
	if s.closed.Load() {
		return errors.Join(cache.ErrCacheUnavailable, errClosed)
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(cache.ErrCacheUnavailable, err)
	}
	return nil
}
