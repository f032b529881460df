package persist

import (
	"context"
	"sync"

	"github.com/matzehuels/waypoint/pkg/nav"
)

// MemoryStore keeps encoded partial states in memory. Values are stored
// serialized, so a loaded state never aliases a saved one.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load decodes the state stored under key.
func (s *MemoryStore) Load(ctx context.Context, key string) (*nav.State, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return nav.DecodePartial(data)
}

// Save stores the partial projection of state under key.
func (s *MemoryStore) Save(ctx context.Context, key string, state *nav.State) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encode(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

// NullStore is a no-op store that never stores anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Load always misses.
func (NullStore) Load(context.Context, string) (*nav.State, error) { return nil, nil }

// Save does nothing.
func (NullStore) Save(context.Context, string, *nav.State) error { return nil }

// Delete does nothing.
func (NullStore) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*NullStore)(nil)
)
