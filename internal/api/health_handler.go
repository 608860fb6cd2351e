package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// Component states reported by the health endpoint.
const (
	HealthOK          = "ok"
	HealthDegraded    = "degraded"
	HealthUnavailable = "unavailable"
	HealthDisabled    = "disabled"
)

// DefaultHealthTimeout bounds each dependency check.
const DefaultHealthTimeout = 2 * time.Second

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthHandler reports whether the database and cache are reachable.
// The cache is optional: when it is down the service still answers from
// the database, so the overall status is degraded rather than unavailable.
type HealthHandler struct {
	database CheckFunc
	cache    CheckFunc
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler. A nil cache check reports the
// cache as disabled.
func NewHealthHandler(database, cache CheckFunc) *HealthHandler {
	return &HealthHandler{
		database: database,
		cache:    cache,
		timeout:  DefaultHealthTimeout,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), nil)

	status := HealthStatus{
		Status:   HealthOK,
		Database: HealthOK,
		Cache:    HealthDisabled,
	}

	if err := h.check(r.Context(), h.database); err != nil {
		log.Error("database health check failed", slog.String("error", redact.Error(err)))
		status.Database = HealthUnavailable
		status.Status = HealthUnavailable
	}

	if h.cache != nil {
		status.Cache = HealthOK
		if err := h.check(r.Context(), h.cache); err != nil {
			log.Warn("cache health check failed", slog.String("error", redact.Error(err)))
			status.Cache = HealthDegraded
			if status.Status == HealthOK {
				status.Status = HealthDegraded
			}
		}
	}

	code := http.StatusOK
	if status.Status == HealthUnavailable {
		code = http.StatusServiceUnavailable
	}
	shared.RespondWithJSON(w, r, code, status)
}

func (h *HealthHandler) check(ctx context.Context, fn CheckFunc) error {
	if fn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return fn(ctx)
}
