package footprint

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository backed by
// the footprint_records table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL footprint repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectRecordColumns = `
	SELECT
		id, user_id, total_footprint,
		transport, energy, food, consumption,
		recommendations, created_at
	FROM footprint_records
`

// FindByOwner returns the owner's records, newest first.
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID string) ([]*Record, error) {
	query := selectRecordColumns + `
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// FindAll returns every record.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]*Record, error) {
	query := selectRecordColumns + `
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// Create inserts a new record.
func (r *PostgresRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	query := `
		INSERT INTO footprint_records (
			id, user_id, total_footprint,
			transport, energy, food, consumption,
			recommendations, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	saved := record.Clone()
	recs := saved.Recommendations
	if recs == nil {
		recs = []string{}
	}

	err := r.pool.QueryRow(ctx, query,
		saved.ID,
		saved.OwnerID,
		saved.TotalFootprint,
		saved.Categories[CategoryTransport],
		saved.Categories[CategoryEnergy],
		saved.Categories[CategoryFood],
		saved.Categories[CategoryConsumption],
		recs,
		saved.CreatedAt,
	).Scan(&saved.CreatedAt)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// Ping checks that the database is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func collectRecords(rows pgx.Rows) ([]*Record, error) {
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		var rec Record
		var transport, energy, food, consumption float64
		err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.TotalFootprint,
			&transport,
			&energy,
			&food,
			&consumption,
			&rec.Recommendations,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Categories = CategoryTotals{
			CategoryTransport:   transport,
			CategoryEnergy:      energy,
			CategoryFood:        food,
			CategoryConsumption: consumption,
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
