// Package store defines the key-value boundary the cart persists snapshots
// through, plus an in-memory implementation used by tests and by runs that
// need no external services.
package store

import (
	"context"
	"sync"
)

// Store is the persistence boundary for cart snapshots. Load reports absence
// with ok=false rather than an error; Save overwrites unconditionally. A
// failing Save must never be treated as fatal by callers: the in-memory cart
// remains the source of truth for the session.
type Store interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
}

// Memory is a map-backed Store. Snapshots live only as long as the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
