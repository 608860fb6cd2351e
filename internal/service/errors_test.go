package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

func TestNewTaskServiceError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, service.NewTaskServiceError("op", "msg", nil))
	})

	t.Run("store not found maps to sentinel", func(t *testing.T) {
		err := service.NewTaskServiceError("get_task", "msg", fmt.Errorf("wrapped: %w", store.ErrTaskNotFound))
		assert.Same(t, service.ErrTaskNotFound, err)
	})

	t.Run("validation passes through", func(t *testing.T) {
		verr := domain.NewValidationError("name", "should not be empty", nil)
		err := service.NewTaskServiceError("create_task", "msg", verr)
		assert.Same(t, verr, err)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := service.NewTaskServiceError("list_tasks", "failed to list tasks", cause)

		var svcErr *service.TaskServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "list_tasks", svcErr.Operation)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "task service list_tasks failed: failed to list tasks: connection refused", err.Error())
	})
}

func TestTaskServiceErrorWithoutCause(t *testing.T) {
	err := &service.TaskServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	assert.Equal(t, "task service create_service failed: task store cannot be nil", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("7f1c2a4e-9b1d-4c3e-8a2f-1d2e3f4a5b6c")
	assert.Equal(t, "task:7f1c2a4e-9b1d-4c3e-8a2f-1d2e3f4a5b6c", service.TaskKey(id))
	assert.Equal(t, "tasks:all", service.TasksListKey)
}
