package repository

import (
	"context"
	"errors"
	"fmt"

	"lottogen/database"
	"lottogen/domain/entities"
	"lottogen/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const runColumns = `id, from_year, to_year, draw_count, top_k, requested, seed, frequencies, created_at`

// GenerationRunRepository implements generation run persistence
type GenerationRunRepository struct {
	q Queryable
}

var _ interfaces.GenerationRunRepository = (*GenerationRunRepository)(nil)

// NewGenerationRunRepository creates a new generation run repository
func NewGenerationRunRepository(db *database.DB) *GenerationRunRepository {
	return &GenerationRunRepository{q: db.Pool}
}

// NewGenerationRunRepositoryScoped creates a generation run repository bound to a transaction
func NewGenerationRunRepositoryScoped(tx Queryable) *GenerationRunRepository {
	return &GenerationRunRepository{q: tx}
}

// Create stores the run and its tickets in a single transaction
func (r *GenerationRunRepository) Create(ctx context.Context, run *entities.GenerationRun) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO generation_runs (id, from_year, to_year, draw_count, top_k, requested, produced, seed, frequencies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query,
		run.ID,
		run.FromYear,
		run.ToYear,
		run.DrawCount,
		run.TopK,
		run.Requested,
		run.Produced(),
		encodeSeed(run.Seed),
		encodeFrequencies(run.Frequency),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create generation run: %w", err)
	}

	if len(run.Tickets) > 0 {
		batch := &pgx.Batch{}
		for i, ticket := range run.Tickets {
			batch.Queue(
				`INSERT INTO generated_tickets (run_id, position, numbers) VALUES ($1, $2, $3)`,
				run.ID, i, encodeTicket(ticket),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to store generated tickets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit generation run: %w", err)
	}
	return nil
}

// GetByID returns the run with its tickets, or nil if it does not exist
func (r *GenerationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.GenerationRun, error) {
	query := `SELECT ` + runColumns + ` FROM generation_runs WHERE id = $1`

	run, err := scanRun(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generation run: %w", err)
	}

	tickets, err := r.getTickets(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Tickets = tickets

	return run, nil
}

// GetRecent returns the latest runs, newest first, without their tickets
func (r *GenerationRunRepository) GetRecent(ctx context.Context, limit int) ([]*entities.GenerationRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM generation_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation runs: %w", err)
	}
	defer rows.Close()

	var runs []*entities.GenerationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generation runs: %w", err)
	}

	return runs, nil
}

func (r *GenerationRunRepository) getTickets(ctx context.Context, runID uuid.UUID) ([]entities.Ticket, error) {
	query := `
		SELECT numbers
		FROM generated_tickets
		WHERE run_id = $1
		ORDER BY position
	`

	rows, err := r.q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query generated tickets: %w", err)
	}
	defer rows.Close()

	var tickets []entities.Ticket
	for rows.Next() {
		var numbers []int16
		if err := rows.Scan(&numbers); err != nil {
			return nil, fmt.Errorf("failed to scan generated ticket: %w", err)
		}
		ticket, err := decodeTicket(numbers)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generated tickets: %w", err)
	}

	return tickets, nil
}

func scanRun(row pgx.Row) (*entities.GenerationRun, error) {
	var (
		run         entities.GenerationRun
		seed        *int64
		frequencies []int64
	)
	err := row.Scan(
		&run.ID,
		&run.FromYear,
		&run.ToYear,
		&run.DrawCount,
		&run.TopK,
		&run.Requested,
		&seed,
		&frequencies,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if seed != nil {
		s := uint64(*seed)
		run.Seed = &s
	}
	run.Frequency = decodeFrequencies(frequencies, run.DrawCount)
	return &run, nil
}

func encodeSeed(seed *uint64) *int64 {
	if seed == nil {
		return nil
	}
	s := int64(*seed)
	return &s
}

func encodeFrequencies(freq *entities.FrequencyTable) []int64 {
	counts := make([]int64, entities.MaxNumber)
	if freq == nil {
		return counts
	}
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		counts[n-1] = freq.Count(n)
	}
	return counts
}

func decodeFrequencies(counts []int64, draws int) *entities.FrequencyTable {
	byNumber := make(map[int]int64, len(counts))
	for i, c := range counts {
		byNumber[i+1] = c
	}
	return entities.FrequencyTableFromCounts(byNumber, draws)
}

func encodeTicket(t entities.Ticket) []int16 {
	out := make([]int16, len(t))
	for i, n := range t {
		out[i] = int16(n)
	}
	return out
}

func decodeTicket(numbers []int16) (entities.Ticket, error) {
	ints := make([]int, len(numbers))
	for i, n := range numbers {
		ints[i] = int(n)
	}
	ticket, err := entities.NewTicket(ints)
	if err != nil {
		return entities.Ticket{}, fmt.Errorf("stored ticket is corrupt: %w", err)
	}
	return ticket, nil
}
