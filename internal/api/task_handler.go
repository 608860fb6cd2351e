package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskRequest is the body of create and update requests.
type TaskRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=1,max=500"`
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest = TaskRequest

// UpdateTaskRequest represents the request body for replacing a task.
type UpdateTaskRequest = TaskRequest

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Routes mounts the task endpoints on r.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Route("/{"+taskIDParam+"}", func(r chi.Router) {
		r.Get("/", h.GetTask)
		r.Put("/", h.UpdateTask)
		r.Delete("/", h.DeleteTask)
	})
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, uuid.Nil)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	shared.RespondWithData(w, r, http.StatusOK, tasks)
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, id)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeTaskRequest(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, uuid.Nil)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeTaskRequest(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, id)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathTaskID(w, r)
	if !ok {
		return
	}

	result, err := h.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, id)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, result)
}

// decodeTaskRequest decodes and validates the body, writing a 400 on failure.
func decodeTaskRequest(w http.ResponseWriter, r *http.Request, req *TaskRequest) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		handleDecodeError(w, r, err)
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		details := shared.ValidationMessages(err)
		if len(details) == 0 {
			HandleAPIError(w, r, errors.Join(domain.ErrValidation, err), uuid.Nil)
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgValidationFailed, err,
			shared.WithDetails(details...))
		return false
	}
	return true
}
