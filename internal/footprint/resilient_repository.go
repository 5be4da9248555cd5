package footprint

import (
	"context"

	"github.com/ecotracker/ecotracker/internal/resilience"
)

// ResilientRepository guards another Repository with a circuit breaker.
// Reads are retried with backoff; Create runs once so a retried insert can
// never produce a duplicate record.
type ResilientRepository struct {
	next  Repository
	guard *resilience.Guard
}

// NewResilientRepository wraps next with the given guard.
func NewResilientRepository(next Repository, guard *resilience.Guard) *ResilientRepository {
	return &ResilientRepository{next: next, guard: guard}
}

// FindByOwner returns the owner's records, newest first.
func (r *ResilientRepository) FindByOwner(ctx context.Context, ownerID string) ([]*Record, error) {
	return resilience.Retry(ctx, r.guard, func(ctx context.Context) ([]*Record, error) {
		return r.next.FindByOwner(ctx, ownerID)
	})
}

// FindAll returns every record.
func (r *ResilientRepository) FindAll(ctx context.Context) ([]*Record, error) {
	return resilience.Retry(ctx, r.guard, r.next.FindAll)
}

// Create stores a record exactly once.
func (r *ResilientRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	return resilience.Execute(ctx, r.guard, func(ctx context.Context) (*Record, error) {
		return r.next.Create(ctx, record)
	})
}

// Ping delegates to the wrapped repository when it supports pinging.
func (r *ResilientRepository) Ping(ctx context.Context) error {
	if p, ok := r.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Ensure ResilientRepository implements Repository interface.
var _ Repository = (*ResilientRepository)(nil)
