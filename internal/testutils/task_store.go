package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskStore is an in-memory store.TaskStore that counts calls per method and
// can be told to fail a method with a given error.
//
// Timestamps come from a monotonic fake clock that advances by one
// millisecond per mutation, so ordering by CreatedAt is deterministic.
type TaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
	calls map[string]int
	fail  map[string]error
	clock time.Time
}

var (
	_ store.TaskStore      = (*TaskStore)(nil)
	_ store.TaskTransactor = (*TaskStore)(nil)
)

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
		calls: make(map[string]int),
		fail:  make(map[string]error),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// FailOn makes every subsequent call to method return err.
// A nil err clears the failure.
func (s *TaskStore) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, method)
		return
	}
	s.fail[method] = err
}

// Calls returns how many times method was invoked.
func (s *TaskStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// ResetCalls zeroes all call counters.
func (s *TaskStore) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Seed creates a task directly, bypassing counters and failure injection.
func (s *TaskStore) Seed(name, description string) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.insert(name, description))
}

func (s *TaskStore) enter(method string) error {
	s.calls[method]++
	return s.fail[method]
}

func (s *TaskStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *TaskStore) insert(name, description string) *domain.Task {
	now := s.tick()
	t := &domain.Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	return t
}

func (s *TaskStore) List(_ context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("List"); err != nil {
		return nil, err
	}

	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetByID"); err != nil {
		return nil, err
	}

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return clone(t), nil
}

func (s *TaskStore) Create(_ context.Context, name, description string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Create"); err != nil {
		return nil, err
	}
	return clone(s.insert(name, description)), nil
}

func (s *TaskStore) Update(_ context.Context, id uuid.UUID, name, description string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Update"); err != nil {
		return nil, err
	}

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	t.Name = name
	t.Description = description
	t.UpdatedAt = s.tick()
	return clone(t), nil
}

func (s *TaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Delete"); err != nil {
		return err
	}

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteAll"); err != nil {
		return 0, err
	}

	n := int64(len(s.tasks))
	s.tasks = make(map[uuid.UUID]*domain.Task)
	return n, nil
}

// WithinTx runs fn and restores the previous contents if it fails.
// It gives no isolation from concurrent callers.
func (s *TaskStore) WithinTx(ctx context.Context, fn store.TaskTxFn) error {
	s.mu.Lock()
	s.calls["WithinTx"]++
	snapshot := make(map[uuid.UUID]*domain.Task, len(s.tasks))
	for id, t := range s.tasks {
		snapshot[id] = clone(t)
	}
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.tasks = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func clone(t *domain.Task) *domain.Task {
	c := *t
	return &c
}
