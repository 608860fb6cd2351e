// Package domain contains the core business entity of the tracker, Task,
// together with the boundary checks that keep its fields in bounds. It has
// no knowledge of storage, caching or transport.
package domain
