package repository

import "context"

// Store keeps named counters. Implementations must be concurrency-safe.
type Store interface {
	// Incr adds one to the counter identified by key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// Get returns the current value of key, zero if it was never incremented.
	Get(ctx context.Context, key string) (int64, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
