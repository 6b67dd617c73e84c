package snapshot

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrEmptyName is returned when saving a snapshot without a name.
var ErrEmptyName = errors.New("snapshot: name cannot be empty")

// MemoryStore implements Store in memory. Safe for concurrent use.
type MemoryStore struct {
	data map[string]Snapshot
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Snapshot),
	}
}

func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	if snap.Name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.Name] = snap
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, name string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[name]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored names in lexical order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
