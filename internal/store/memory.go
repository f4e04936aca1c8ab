package store

import (
	"context"
	"sync"

	"github.com/rcalder/wharf/internal/composite"
)

// MemStore is a map-backed Store for tests and --ephemeral runs.
type MemStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// Ensure MemStore implements Store.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

// Load reads the placeholder record from memory.
func (s *MemStore) Load(ctx context.Context) ([]composite.Placeholder, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.values[Key]
	if !ok {
		return nil, false, nil
	}
	placeholders, err := Decode(data)
	if err != nil {
		return nil, true, err
	}
	return placeholders, true, nil
}

// Save writes the placeholder record into memory.
func (s *MemStore) Save(ctx context.Context, placeholders []composite.Placeholder) error {
	data, err := Encode(placeholders)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[Key] = data
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error {
	return nil
}
