package footprint

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and local development. Production should use
// PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records []*Record
}

// NewInMemoryRepository creates a new in-memory footprint repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// FindByOwner returns the owner's records, newest first. Records created at
// the same instant are returned most recently inserted first.
func (r *InMemoryRepository) FindByOwner(_ context.Context, ownerID string) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].OwnerID == ownerID {
			out = append(out, r.records[i].Clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FindAll returns every stored record in insertion order.
func (r *InMemoryRepository) FindAll(_ context.Context) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Create appends a copy of the record.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record.Clone())
	return record.Clone(), nil
}

// Ping always succeeds.
func (r *InMemoryRepository) Ping(_ context.Context) error {
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
