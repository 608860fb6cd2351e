// Package cache provides the fail-open JSON cache used in front of the task
// store. A Cache never returns errors to its callers: an unreachable or slow
// key-value store degrades to cache misses and skipped writes, which are
// logged and counted.
package cache
