// Package testutils provides in-memory fakes and helpers shared by the
// package tests: a task store with call counters and failure injection,
// cache stores that work, fail or hang, and a capturing slog handler.
package testutils
