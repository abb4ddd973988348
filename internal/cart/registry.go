package cart

import (
	"context"
	"sync"

	"github.com/jcmexdev/storefront/internal/store"
)

// Registry hands out one Manager per session key, creating it lazily from the
// backing store. Managers live for the rest of the process; the store remains
// the durable truth across restarts. Concurrent sessions get independent
// managers, and the store's last-writer-wins semantics are the only cross-
// session guarantee.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]*Manager
	store    store.Store
	opts     []Option
}

// NewRegistry builds a registry whose managers share the given store and
// construction options.
func NewRegistry(st store.Store, opts ...Option) *Registry {
	return &Registry{
		managers: make(map[string]*Manager),
		store:    st,
		opts:     opts,
	}
}

// Get returns the manager for key, loading its snapshot on first use.
func (r *Registry) Get(ctx context.Context, key string) *Manager {
	r.mu.RLock()
	m, ok := r.managers[key]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[key]; ok {
		return m
	}
	m = New(ctx, r.store, key, r.opts...)
	r.managers[key] = m
	return m
}

// Len reports how many carts are live in memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.managers)
}
