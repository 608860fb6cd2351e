package testutils

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/cache"
)

type mapEntry struct {
	data []byte
	ttl  time.Duration
}

// MapStore is an in-memory cache.Store. Entries never expire on their own;
// tests call Expire to simulate the TTL running out.
type MapStore struct {
	mu      sync.Mutex
	entries map[string]mapEntry
	calls   map[string]int
}

var _ cache.Store = (*MapStore)(nil)

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{
		entries: make(map[string]mapEntry),
		calls:   make(map[string]int),
	}
}

func (s *MapStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Get"]++

	e, ok := s.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return append([]byte(nil), e.data...), nil
}

func (s *MapStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Set"]++

	s.entries[key] = mapEntry{data: append([]byte(nil), value...), ttl: ttl}
	return nil
}

func (s *MapStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Delete"]++

	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

func (s *MapStore) Ping(context.Context) error { return nil }

func (s *MapStore) Close() error { return nil }

// Has reports whether key is present.
func (s *MapStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Raw returns the stored bytes for key.
func (s *MapStore) Raw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e.data, ok
}

// TTL returns the expiry the entry under key was stored with.
func (s *MapStore) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].ttl
}

// Put stores raw bytes without counting a Set call.
func (s *MapStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = mapEntry{data: data}
}

// Expire drops key as if its TTL had elapsed.
func (s *MapStore) Expire(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Keys returns the present keys in sorted order.
func (s *MapStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Calls returns how many times method was invoked.
func (s *MapStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// FailingCacheStore is a cache.Store whose every operation fails as if the
// server were down.
type FailingCacheStore struct {
	mu    sync.Mutex
	calls int
}

var _ cache.Store = (*FailingCacheStore)(nil)

func (s *FailingCacheStore) fail(op string) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return fmt.Errorf("%w: %s: connection refused", cache.ErrCacheUnavailable, op)
}

func (s *FailingCacheStore) Get(context.Context, string) ([]byte, error) {
	return nil, s.fail("get")
}

func (s *FailingCacheStore) Set(context.Context, string, []byte, time.Duration) error {
	return s.fail("set")
}

func (s *FailingCacheStore) Delete(context.Context, ...string) error {
	return s.fail("delete")
}

func (s *FailingCacheStore) Ping(context.Context) error { return s.fail("ping") }

func (s *FailingCacheStore) Close() error { return nil }

// Calls returns the number of failed operations.
func (s *FailingCacheStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// HangingCacheStore blocks every operation until the context is done.
type HangingCacheStore struct{}

var _ cache.Store = HangingCacheStore{}

func (HangingCacheStore) Get(ctx context.Context, _ string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (HangingCacheStore) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}

func (HangingCacheStore) Delete(ctx context.Context, _ ...string) error {
	<-ctx.Done()
	return ctx.Err()
}

func (HangingCacheStore) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (HangingCacheStore) Close() error { return nil }
