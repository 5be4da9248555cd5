package feedback

import (
	"context"

	"github.com/ecotracker/ecotracker/internal/resilience"
)

// ResilientStore guards another Store with a circuit breaker. Listing is
// retried; Create is attempted once.
type ResilientStore struct {
	next  Store
	guard *resilience.Guard
}

// NewResilientStore wraps next with the given guard.
func NewResilientStore(next Store, guard *resilience.Guard) *ResilientStore {
	return &ResilientStore{next: next, guard: guard}
}

// Create stores an entry exactly once.
func (s *ResilientStore) Create(ctx context.Context, entry *Entry) (*Entry, error) {
	return resilience.Execute(ctx, s.guard, func(ctx context.Context) (*Entry, error) {
		return s.next.Create(ctx, entry)
	})
}

// ListByOwner returns the owner's entries, newest first.
func (s *ResilientStore) ListByOwner(ctx context.Context, ownerID string) ([]*Entry, error) {
	return resilience.Retry(ctx, s.guard, func(ctx context.Context) ([]*Entry, error) {
		return s.next.ListByOwner(ctx, ownerID)
	})
}

var _ Store = (*ResilientStore)(nil)
