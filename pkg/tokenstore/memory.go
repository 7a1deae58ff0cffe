package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store with process-local storage. Suitable for
// tests and short-lived tools that should not leave credentials on disk.
type MemoryStore struct {
	mu    sync.RWMutex
	pairs map[string]Pair
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pairs: make(map[string]Pair)}
}

// Load returns the pair stored for origin, or ErrNotFound.
func (m *MemoryStore) Load(ctx context.Context, origin string) (Pair, error) {
	if origin == "" {
		return Pair{}, ErrInvalidOrigin
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	pair, ok := m.pairs[origin]
	if !ok {
		return Pair{}, ErrNotFound
	}
	return pair, nil
}

// Save stores the pair for origin.
func (m *MemoryStore) Save(ctx context.Context, origin string, pair Pair) error {
	if origin == "" {
		return ErrInvalidOrigin
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pairs[origin] = pair
	return nil
}

// Clear removes the pair for origin.
func (m *MemoryStore) Clear(ctx context.Context, origin string) error {
	if origin == "" {
		return ErrInvalidOrigin
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pairs, origin)
	return nil
}
