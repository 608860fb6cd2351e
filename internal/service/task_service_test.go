package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/testutils"
)

var errBoom = errors.New("database is on fire")

type fixture struct {
	svc   service.TaskService
	store *testutils.TaskStore
	kv    *testutils.MapStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutils.NewTaskStore()
	kv := testutils.NewMapStore()
	log, _ := testutils.NewTestLogger()

	svc, err := service.NewTaskService(store, cache.New(kv, cache.Options{}, log), service.Config{}, log)
	require.NoError(t, err)

	return &fixture{svc: svc, store: store, kv: kv}
}

func newServiceWithCacheStore(t *testing.T, kv cache.Store) (service.TaskService, *testutils.TaskStore) {
	t.Helper()
	store := testutils.NewTaskStore()
	log, _ := testutils.NewTestLogger()
	c := cache.New(kv, cache.Options{OperationTimeout: 20 * time.Millisecond}, log)

	svc, err := service.NewTaskService(store, c, service.Config{}, log)
	require.NoError(t, err)
	return svc, store
}

func TestNewTaskService(t *testing.T) {
	c := cache.NewNoop(nil)

	_, err := service.NewTaskService(nil, c, service.Config{}, nil)
	var svcErr *service.TaskServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_service", svcErr.Operation)

	_, err = service.NewTaskService(testutils.NewTaskStore(), nil, service.Config{}, nil)
	assert.Error(t, err)

	svc, err := service.NewTaskService(testutils.NewTaskStore(), c, service.Config{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, "Write docs", "README and API reference")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := f.svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetTask_MissThenHit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("Read", "a book")

	first, err := f.svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Calls("GetByID"))
	assert.True(t, f.kv.Has(service.TaskKey(seeded.ID)))
	assert.Equal(t, service.DefaultCacheTTL, f.kv.TTL(service.TaskKey(seeded.ID)))

	second, err := f.svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Calls("GetByID"), "a hit does not touch the store")
	assert.Equal(t, first, second)
	assert.Equal(t, seeded, second)
}

func TestGetTask_AfterExpiryRefetches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("Read", "a book")

	_, err := f.svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	f.kv.Expire(service.TaskKey(seeded.ID))

	_, err = f.svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.Calls("GetByID"))
}

func TestGetTask_NotFound(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	task, err := f.svc.GetTask(context.Background(), id)

	assert.Nil(t, task)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.False(t, f.kv.Has(service.TaskKey(id)), "not found is never cached")
	assert.Zero(t, f.kv.Calls("Set"))
}

func TestGetTask_CachedEntryForOtherIDIsMiss(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json null", `null`},
		{"empty object", `{}`},
		{"other task", `{"id":"` + uuid.New().String() + `","name":"other","description":"task"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			seeded := f.store.Seed("Read", "a book")
			f.kv.Put(service.TaskKey(seeded.ID), []byte(tt.raw))

			got, err := f.svc.GetTask(context.Background(), seeded.ID)

			require.NoError(t, err)
			assert.Equal(t, seeded, got)
			assert.Equal(t, 1, f.store.Calls("GetByID"))
		})
	}
}

func TestListTasks_CachedNullIsMiss(t *testing.T) {
	f := newFixture(t)
	seeded := f.store.Seed("Read", "a book")
	f.kv.Put(service.TasksListKey, []byte(`null`))

	tasks, err := f.svc.ListTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, seeded.ID, tasks[0].ID)
	assert.Equal(t, 1, f.store.Calls("List"))
}

func TestGetTask_PersistenceError(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("GetByID", errBoom)

	_, err := f.svc.GetTask(context.Background(), uuid.New())

	assert.ErrorIs(t, err, errBoom)
	var svcErr *service.TaskServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "get_task", svcErr.Operation)
	assert.Zero(t, f.kv.Calls("Set"))
}

func TestListTasks_MissThenHit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	older := f.store.Seed("older", "first in")
	newer := f.store.Seed("newer", "second in")

	tasks, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, newer.ID, tasks[0].ID, "newest first")
	assert.Equal(t, older.ID, tasks[1].ID)
	assert.True(t, f.kv.Has(service.TasksListKey))

	again, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, again)
	assert.Equal(t, 1, f.store.Calls("List"))
}

func TestListTasks_EmptyIsCachedAsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tasks, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	raw, ok := f.kv.Raw(service.TasksListKey)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))

	cached, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cached)
	assert.Empty(t, cached)
	assert.Equal(t, 1, f.store.Calls("List"))
}

func TestListTasks_PersistenceError(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("List", errBoom)

	_, err := f.svc.ListTasks(context.Background())

	assert.ErrorIs(t, err, errBoom)
	assert.False(t, f.kv.Has(service.TasksListKey))
}

func TestListTasks_ServesCachedSnapshotUntilExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Seed("first", "cached")

	_, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)

	// A write that bypasses the service is invisible until the entry expires.
	f.store.Seed("second", "written behind the cache")
	stale, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	f.kv.Expire(service.TasksListKey)
	fresh, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestCreateTask_InvalidatesList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	require.True(t, f.kv.Has(service.TasksListKey))

	created, err := f.svc.CreateTask(ctx, "New", "task")
	require.NoError(t, err)
	assert.False(t, f.kv.Has(service.TasksListKey))
	assert.False(t, f.kv.Has(service.TaskKey(created.ID)), "create does not pre-populate the task key")

	tasks, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTask(context.Background(), "", "description")

	assert.ErrorIs(t, err, domain.ErrValidation)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name", verrs[0].Field)
	assert.Zero(t, f.store.Calls("Create"))
}

func TestCreateTask_PersistenceErrorKeepsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	f.store.FailOn("Create", errBoom)

	_, err = f.svc.CreateTask(ctx, "New", "task")

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, f.kv.Has(service.TasksListKey))
	assert.Zero(t, f.kv.Calls("Delete"))
}

func TestUpdateTask_VisibleRegardlessOfPriorCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("Old name", "Old description")

	// Populate both keys with the pre-update value.
	_, err := f.svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	_, err = f.svc.ListTasks(ctx)
	require.NoError(t, err)

	updated, err := f.svc.UpdateTask(ctx, seeded.ID, "New name", "New description")
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(seeded.UpdatedAt))

	got, err := f.svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, "New description", got.Description)
	assert.True(t, got.UpdatedAt.After(seeded.UpdatedAt))

	tasks, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "New name", tasks[0].Name)
}

func TestUpdateTask_ExistenceCheckPopulatesThenInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("name", "description")

	_, err := f.svc.UpdateTask(ctx, seeded.ID, "renamed", "description")
	require.NoError(t, err)

	assert.Equal(t, 1, f.kv.Calls("Set"), "the existence check caches the pre-update value")
	assert.False(t, f.kv.Has(service.TaskKey(seeded.ID)), "and the invalidation removes it")
	assert.False(t, f.kv.Has(service.TasksListKey))
}

func TestUpdateTask_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)

	_, err = f.svc.UpdateTask(ctx, uuid.New(), "name", "description")

	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.Zero(t, f.store.Calls("Update"))
	assert.Zero(t, f.kv.Calls("Delete"))
	assert.True(t, f.kv.Has(service.TasksListKey))
}

func TestUpdateTask_Validation(t *testing.T) {
	f := newFixture(t)
	seeded := f.store.Seed("name", "description")

	_, err := f.svc.UpdateTask(context.Background(), seeded.ID, "name", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.store.Calls("GetByID"))
	assert.Zero(t, f.store.Calls("Update"))
}

func TestUpdateTask_PersistenceErrorSkipsInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("name", "description")
	_, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	f.store.FailOn("Update", errBoom)

	_, err = f.svc.UpdateTask(ctx, seeded.ID, "renamed", "description")

	assert.ErrorIs(t, err, errBoom)
	var svcErr *service.TaskServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "update_task", svcErr.Operation)
	assert.Zero(t, f.kv.Calls("Delete"))
	assert.True(t, f.kv.Has(service.TasksListKey))
	assert.True(t, f.kv.Has(service.TaskKey(seeded.ID)))
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("name", "description")
	_, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)

	result, err := f.svc.DeleteTask(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Task with ID "+seeded.ID.String()+" deleted successfully", result.Message)
	assert.Empty(t, f.kv.Keys())

	_, err = f.svc.GetTask(ctx, seeded.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	tasks, err := f.svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteTask_AbsentKeysAreFine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("name", "description")
	require.False(t, f.kv.Has(service.TasksListKey))

	_, err := f.svc.DeleteTask(ctx, seeded.ID)
	assert.NoError(t, err, "invalidating a key that was never cached is not an error")
	assert.Empty(t, f.kv.Keys())
}

func TestDeleteTask_NotFound(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.DeleteTask(context.Background(), uuid.New())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.Zero(t, f.store.Calls("Delete"))
	assert.Zero(t, f.kv.Calls("Delete"))
}

func TestDeleteTask_PersistenceErrorSkipsInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("name", "description")
	f.store.FailOn("Delete", errBoom)

	_, err := f.svc.DeleteTask(ctx, seeded.ID)

	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, f.kv.Calls("Delete"))
	assert.True(t, f.kv.Has(service.TaskKey(seeded.ID)))
}

func TestCacheFailureTransparency(t *testing.T) {
	failing := &testutils.FailingCacheStore{}
	svc, store := newServiceWithCacheStore(t, failing)
	runCRUD(t, svc)

	assert.Positive(t, failing.Calls())
	assert.Equal(t, 0, store.Len())
}

func TestCacheHangingStoreIsBounded(t *testing.T) {
	svc, _ := newServiceWithCacheStore(t, testutils.HangingCacheStore{})
	runCRUD(t, svc)
}

func TestNoopCache(t *testing.T) {
	store := testutils.NewTaskStore()
	svc, err := service.NewTaskService(store, cache.NewNoop(nil), service.Config{}, nil)
	require.NoError(t, err)
	ctx := context.Background()
	seeded := store.Seed("name", "description")

	for i := 0; i < 3; i++ {
		_, err := svc.GetTask(ctx, seeded.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Calls("GetByID"), "every read goes to the store")
}

// runCRUD walks the concrete create/list/update/delete scenario and checks
// each step's result.
func runCRUD(t *testing.T, svc service.TaskService) {
	t.Helper()
	ctx := context.Background()

	a, err := svc.CreateTask(ctx, "Buy milk", "2%")
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, a.ID, tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Name)

	got, err := svc.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	updated, err := svc.UpdateTask(ctx, a.ID, "Buy oat milk", "2%")
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Name)

	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy oat milk", tasks[0].Name)

	_, err = svc.DeleteTask(ctx, a.ID)
	require.NoError(t, err)

	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = svc.GetTask(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestConcreteScenario(t *testing.T) {
	f := newFixture(t)
	runCRUD(t, f.svc)

	// The final list read repopulates the list key with the empty result;
	// the deleted task's entry stays gone.
	assert.Equal(t, []string{service.TasksListKey}, f.kv.Keys())
	raw, ok := f.kv.Raw(service.TasksListKey)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestConcurrentUpdatesSettleAfterInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.store.Seed("name", "description")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.UpdateTask(ctx, seeded.ID, "renamed", "description")
			assert.NoError(t, err)
			_, err = f.svc.GetTask(ctx, seeded.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Readers racing the invalidations may have cached an intermediate
	// snapshot; once it expires the store's value is served.
	f.kv.Expire(service.TaskKey(seeded.ID))
	got, err := f.svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
}
