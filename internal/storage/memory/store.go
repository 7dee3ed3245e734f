// Package memory provides an in-process Store used by tests and ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/samdwyer/warband/internal/storage"
)

// Store keeps blobs in a map.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]string
	saves int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{blobs: make(map[string]string)}
}

// Load returns the blob saved under key.
func (s *Store) Load(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.blobs[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

// Save replaces the blob under key.
func (s *Store) Save(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = value
	s.saves++
	return nil
}

// Saves returns how many Save calls have succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

var _ storage.Store = (*Store)(nil)
