package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/ports"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.StateSnapshot
	mu   sync.RWMutex
}

var _ ports.StateStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.StateSnapshot),
	}
}

// Save persists a copy of the snapshot.
func (s *Store) Save(ctx context.Context, moduleID string, snapshot *domain.StateSnapshot) error {
	copied := snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[moduleID] = copied
	return nil
}

// Load retrieves a copy of the snapshot so callers cannot mutate the store.
func (s *Store) Load(ctx context.Context, moduleID string) (*domain.StateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[moduleID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return snap.Clone(), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, moduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, moduleID)
	return nil
}

// List returns the stored module IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
