package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/platform/redis"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := redis.NewStore(redis.Config{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func TestStore_SetGet(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "task:1", []byte(`{"id":"1"}`), 300*time.Second))

	got, err := s.Get(ctx, "task:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(got))
	assert.Equal(t, 300*time.Second, mr.TTL("task:1"))

	raw, err := mr.Get("task:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, raw, "keys are stored without a prefix")
}

func TestStore_GetMiss(t *testing.T) {
	_, s := setup(t)

	_, err := s.Get(context.Background(), "tasks:all")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestStore_Expiry(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "tasks:all", []byte(`[]`), time.Minute))
	mr.FastForward(time.Minute + time.Second)

	_, err := s.Get(ctx, "tasks:all")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestStore_Delete(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("task:1", "x"))
	require.NoError(t, mr.Set("tasks:all", "y"))

	require.NoError(t, s.Delete(ctx, "task:1", "tasks:all", "task:missing"))
	assert.False(t, mr.Exists("task:1"))
	assert.False(t, mr.Exists("tasks:all"))

	assert.NoError(t, s.Delete(ctx))
}

func TestStore_Unavailable(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()
	mr.Close()

	_, err := s.Get(ctx, "task:1")
	assert.ErrorIs(t, err, cache.ErrCacheUnavailable)
	assert.NotErrorIs(t, err, cache.ErrCacheMiss)

	assert.ErrorIs(t, s.Set(ctx, "task:1", []byte("x"), time.Minute), cache.ErrCacheUnavailable)
	assert.ErrorIs(t, s.Delete(ctx, "task:1"), cache.ErrCacheUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), cache.ErrCacheUnavailable)
}

func TestStore_Ping(t *testing.T) {
	_, s := setup(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestNewStoreFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := redis.NewStoreFromClient(client)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), 0))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))

	assert.Panics(t, func() { redis.NewStoreFromClient(nil) })
}
