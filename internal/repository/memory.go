package repository

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryStore returns an in-memory Store for local development/testing.
func NewMemoryStore() Store {
	return &memoryStore{counters: make(map[string]int64)}
}

func (m *memoryStore) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key], nil
}

func (m *memoryStore) Ping(ctx context.Context) error {
	return nil
}
