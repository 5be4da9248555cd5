package footprint

import "context"

// Repository persists footprint records. Records are append-only: there is
// no update or delete.
type Repository interface {
	// FindByOwner returns the owner's records, newest first.
	FindByOwner(ctx context.Context, ownerID string) ([]*Record, error)

	// FindAll returns every record of every owner.
	FindAll(ctx context.Context) ([]*Record, error)

	// Create stores a new record and returns it as persisted.
	Create(ctx context.Context, record *Record) (*Record, error)
}

// Pinger is implemented by repositories that can report store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
