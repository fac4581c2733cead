package interfaces

import (
	"context"

	"lottogen/domain/entities"

	"github.com/google/uuid"
)

// DrawRepository defines the interface for draw history data access
type DrawRepository interface {
	// UpsertBatch stores draws, ignoring any whose numbers are already stored.
	// Returns the number of newly inserted draws.
	UpsertBatch(ctx context.Context, draws []*entities.Draw) (int, error)

	// GetAll returns every stored draw ordered by year then id
	GetAll(ctx context.Context) ([]*entities.Draw, error)

	// GetByYearRange returns draws whose archive year falls in [fromYear, toYear]
	GetByYearRange(ctx context.Context, fromYear, toYear int) ([]*entities.Draw, error)

	// Count returns the number of stored draws
	Count(ctx context.Context) (int64, error)
}

// GenerationRunRepository defines the interface for generation run persistence
type GenerationRunRepository interface {
	// Create stores a run together with its tickets and frequency snapshot
	Create(ctx context.Context, run *entities.GenerationRun) error

	// GetByID returns a run with its tickets, or nil if not found
	GetByID(ctx context.Context, id uuid.UUID) (*entities.GenerationRun, error)

	// GetRecent returns the most recent runs without tickets
	GetRecent(ctx context.Context, limit int) ([]*entities.GenerationRun, error)
}
