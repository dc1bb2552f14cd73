// Package memstore provides an in-memory link repository.
package memstore

import (
	"context"
	"sync"

	"github.com/KretovDmitry/shortlinks/internal/models"
)

// LinkRepository is an in-memory implementation of the LinkStorage interface.
// It hands out copies so callers can't mutate the stored map.
// It is safe for concurrent use.
type LinkRepository struct {
	// store holds the links.
	store models.Links
	// mu is a mutex that protects the store map from concurrent access.
	mu sync.RWMutex
}

// NewLinkRepository creates a new, empty in-memory repository.
func NewLinkRepository() *LinkRepository {
	return &LinkRepository{store: models.NewLinks()}
}

// Load returns a copy of the stored links.
func (r *LinkRepository) Load(_ context.Context) (models.Links, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.Clone(), nil
}

// Save replaces the stored links with a copy of the given ones.
func (r *LinkRepository) Save(_ context.Context, links models.Links) error {
	r.mu.Lock()
	r.store = links.Clone()
	r.mu.Unlock()

	return nil
}

// Ping always succeeds.
func (r *LinkRepository) Ping(_ context.Context) error {
	return nil
}
