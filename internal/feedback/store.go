package feedback

import "context"

// Store persists feedback entries.
type Store interface {
	// Create stores a new entry and returns the stored copy.
	Create(ctx context.Context, entry *Entry) (*Entry, error)

	// ListByOwner returns the owner's entries, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Entry, error)
}
