package repository

import (
	"context"
	"fmt"

	"lottogen/database"
	"lottogen/domain/entities"
	"lottogen/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const drawColumns = `id, n1, n2, n3, n4, n5, n6, year, source, created_at`

// DrawRepository implements draw history persistence
type DrawRepository struct {
	q Queryable
}

var _ interfaces.DrawRepository = (*DrawRepository)(nil)

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// NewDrawRepositoryScoped creates a draw repository bound to a transaction
func NewDrawRepositoryScoped(tx Queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

// UpsertBatch inserts the draws, skipping combinations that are already stored
func (r *DrawRepository) UpsertBatch(ctx context.Context, draws []*entities.Draw) (int, error) {
	if len(draws) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO draws (n1, n2, n3, n4, n5, n6, year, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (n1, n2, n3, n4, n5, n6) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, d := range draws {
		n := d.Numbers
		batch.Queue(query, n[0], n[1], n[2], n[3], n[4], n[5], d.Year, d.Source)
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range draws {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert draw: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// GetAll returns every stored draw
func (r *DrawRepository) GetAll(ctx context.Context) ([]*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws ORDER BY year, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	return collectDraws(rows)
}

// GetByYearRange returns the draws read from archive years in [fromYear, toYear]
func (r *DrawRepository) GetByYearRange(ctx context.Context, fromYear, toYear int) ([]*entities.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		WHERE year BETWEEN $1 AND $2
		ORDER BY year, id
	`

	rows, err := r.q.Query(ctx, query, fromYear, toYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws for %d-%d: %w", fromYear, toYear, err)
	}
	return collectDraws(rows)
}

// Count returns the number of stored draws
func (r *DrawRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM draws`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

func collectDraws(rows pgx.Rows) ([]*entities.Draw, error) {
	defer rows.Close()

	var draws []*entities.Draw
	for rows.Next() {
		var d entities.Draw
		if err := rows.Scan(
			&d.ID,
			&d.Numbers[0],
			&d.Numbers[1],
			&d.Numbers[2],
			&d.Numbers[3],
			&d.Numbers[4],
			&d.Numbers[5],
			&d.Year,
			&d.Source,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draws: %w", err)
	}

	return draws, nil
}
