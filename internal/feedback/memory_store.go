package feedback

import (
	"context"
	"sync"
)

// InMemoryStore is an in-memory implementation of Store for tests and local
// development.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewInMemoryStore creates a new in-memory feedback store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Create appends a copy of the entry.
func (s *InMemoryStore) Create(_ context.Context, entry *Entry) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *entry
	s.entries = append(s.entries, &stored)
	out := stored
	return &out, nil
}

// ListByOwner returns the owner's entries, newest first.
func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].OwnerID == ownerID {
			e := *s.entries[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

// Ensure InMemoryStore implements Store interface.
var _ Store = (*InMemoryStore)(nil)
