package feedback

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of Store backed by the
// feedback table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL feedback store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new entry.
func (s *PostgresStore) Create(ctx context.Context, entry *Entry) (*Entry, error) {
	query := `
		INSERT INTO feedback (id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	saved := *entry
	err := s.pool.QueryRow(ctx, query,
		saved.ID,
		saved.OwnerID,
		saved.Rating,
		saved.Comment,
		saved.CreatedAt,
	).Scan(&saved.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

// ListByOwner returns the owner's entries, newest first.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]*Entry, error) {
	query := `
		SELECT id, user_id, rating, comment, created_at
		FROM feedback
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Rating, &e.Comment, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Ensure PostgresStore implements Store interface.
var _ Store = (*PostgresStore)(nil)
