package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// taskIDParam is the chi path parameter holding a task ID.
const taskIDParam = "id"

// getPathUUID extracts a UUID from the URL path parameters.
// It returns the raw value alongside so callers can echo it back.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, string, bool) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, raw, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, raw, false
	}
	return id, raw, true
}

// handlePathTaskID extracts the task ID from the path. A missing or
// malformed ID cannot name an existing task, so it is answered with 404.
func handlePathTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, raw, ok := getPathUUID(r, taskIDParam)
	if !ok {
		respondTaskNotFound(w, r, raw)
		return uuid.Nil, false
	}
	return id, true
}
