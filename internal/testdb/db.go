package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql

	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// Environment variables checked, in order, for the test database URL.
const (
	EnvTestDatabaseURL  = "TASKS_TEST_DATABASE_URL"
	EnvTasksDatabaseURL = "TASKS_DATABASE_URL"
	EnvDatabaseURL      = "DATABASE_URL"
)

var migrateOnce = map[string]*sync.Once{}
var migrateMu sync.Mutex
var migrateErr = map[string]error{}

// GetTestDatabaseURL returns the first database URL found in the environment.
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvTasksDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT opens the test database, applies migrations once per URL
// and registers cleanup. It skips the test when no database is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("no test database configured; set %s or %s", EnvTestDatabaseURL, EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", redact.URL(dbURL), err)
	}
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database %s: %v", redact.URL(dbURL), err)
	}

	if err := migrate(db, dbURL); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func migrate(db *sql.DB, dbURL string) error {
	migrateMu.Lock()
	once, ok := migrateOnce[dbURL]
	if !ok {
		once = &sync.Once{}
		migrateOnce[dbURL] = once
	}
	migrateMu.Unlock()

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := postgres.Migrate(ctx, db, postgres.MigrateUp, nil)
		migrateMu.Lock()
		migrateErr[dbURL] = err
		migrateMu.Unlock()
	})

	migrateMu.Lock()
	defer migrateMu.Unlock()
	return migrateErr[dbURL]
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests never see each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// DescribeURL returns the configured URL with its password masked.
func DescribeURL() string {
	if u := GetTestDatabaseURL(); u != "" {
		return redact.URL(u)
	}
	return fmt.Sprintf("<unset: %s>", EnvDatabaseURL)
}
