package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/tasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasks-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS(app.config.Server.CORSOrigin))

	taskHandler := api.NewTaskHandler(app.taskService)
	r.Route("/api/tasks", taskHandler.Routes)

	var cacheCheck api.CheckFunc
	if app.cache != nil && app.cache.Enabled() {
		cacheCheck = app.cache.Ping
	}
	healthHandler := api.NewHealthHandler(app.pingDatabase, cacheCheck)
	r.Get("/health", healthHandler.Health)

	if app.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	}

	return r
}
