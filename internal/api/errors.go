package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Client-facing messages.
const (
	msgValidationFailed   = "Validation failed"
	msgInvalidRequestBody = "Invalid request body"
	msgInternalError      = "Internal server error"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	switch MapErrorToStatusCode(err) {
	case http.StatusNotFound:
		return "Task not found"
	case http.StatusBadRequest:
		return msgValidationFailed
	default:
		return msgInternalError
	}
}

// taskNotFoundMessage is the 404 message for a task ID as the client sent it.
func taskNotFoundMessage(id string) string {
	return fmt.Sprintf("Task with ID %s not found", id)
}

// respondTaskNotFound writes the 404 for a task ID as the client sent it.
func respondTaskNotFound(w http.ResponseWriter, r *http.Request, rawID string) {
	shared.RespondWithError(w, r, http.StatusNotFound, taskNotFoundMessage(rawID))
}

// ValidationDetails lists one message per failing field for domain
// validation errors. It returns nil for any other error.
func ValidationDetails(err error) []string {
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		details := make([]string, 0, len(many))
		for _, e := range many {
			details = append(details, e.Error())
		}
		return details
	}

	var one *domain.ValidationError
	if errors.As(err, &one) {
		return []string{one.Error()}
	}
	return nil
}

// HandleAPIError writes the error envelope for err. id is the task the
// request addressed, used to phrase not-found messages; pass uuid.Nil when
// the request did not address a single task.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, id uuid.UUID) {
	status := MapErrorToStatusCode(err)

	switch status {
	case http.StatusNotFound:
		msg := GetSafeErrorMessage(err)
		if id != uuid.Nil {
			msg = taskNotFoundMessage(id.String())
		}
		shared.RespondWithErrorAndLog(w, r, status, msg, err)

	case http.StatusBadRequest:
		shared.RespondWithErrorAndLog(w, r, status, msgValidationFailed, err,
			shared.WithDetails(ValidationDetails(err)...))

	default:
		shared.RespondWithErrorAndLog(w, r, status, msgInternalError, err)
	}
}

// handleDecodeError writes a 400 for a body that could not be decoded.
func handleDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *shared.UnknownFieldError
	if errors.As(err, &unknown) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgValidationFailed, err,
			shared.WithDetails(unknown.Error()))
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequestBody, err)
}
