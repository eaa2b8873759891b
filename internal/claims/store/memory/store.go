// Package memory is an in-process binding backend for tests and local runs.
package memory

import (
	"context"
	"sync"

	"atproto-handle/internal/claims/models"
)

// Store keeps the binding set in memory. Reload is a no-op.
type Store struct {
	mu       sync.RWMutex
	bindings []models.Binding
}

// New seeds the store with an initial binding set.
func New(seed ...models.Binding) *Store {
	return &Store{bindings: clone(seed)}
}

func (s *Store) Read(_ context.Context) ([]models.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.bindings), nil
}

func (s *Store) Write(_ context.Context, bindings []models.Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = clone(bindings)
	return nil
}

func (s *Store) Reload(_ context.Context) error {
	return nil
}

func clone(in []models.Binding) []models.Binding {
	out := make([]models.Binding, len(in))
	copy(out, in)
	return out
}
