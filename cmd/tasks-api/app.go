package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds the dependencies shared by the HTTP server and the
// operational commands.
type application struct {
	config *config.Config
	logger *slog.Logger

	db       *sql.DB
	registry *prometheus.Registry
	cache    *cache.StoreCache

	taskStore   store.TaskStore
	taskService service.TaskService
}

// newApplication connects to the database and the cache and builds the
// task service on top of them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "tasks"),
	)

	c, err := setupCache(ctx, cfg.Cache, registry, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set up cache: %w", err)
	}

	app, err := assembleApplication(cfg, logger, db, registry, c,
		postgres.NewPostgresTaskStore(db, logger))
	if err != nil {
		_ = c.Close()
		_ = db.Close()
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// assembleApplication wires the service layer onto already-open
// dependencies. db may be nil in tests.
func assembleApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	registry *prometheus.Registry,
	c *cache.StoreCache,
	tasks store.TaskStore,
) (*application, error) {
	svc, err := service.NewTaskService(tasks, c, service.Config{CacheTTL: cfg.Cache.TTL}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		registry:    registry,
		cache:       c,
		taskStore:   tasks,
		taskService: svc,
	}, nil
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// pingDatabase backs the health endpoint.
func (app *application) pingDatabase(ctx context.Context) error {
	if app.db == nil {
		return fmt.Errorf("database not configured")
	}
	return app.db.PingContext(ctx)
}

func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
