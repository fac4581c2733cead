package entities

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRun records one ticket generation from a frequency table
type GenerationRun struct {
	ID        uuid.UUID       `db:"id"`
	FromYear  int             `db:"from_year"`
	ToYear    int             `db:"to_year"`
	DrawCount int             `db:"draw_count"`
	TopK      int             `db:"top_k"`
	Requested int             `db:"requested"`
	Seed      *uint64         `db:"seed"` // NULL when the run used an unseeded source
	CreatedAt time.Time       `db:"created_at"`
	Tickets   []Ticket        `db:"-"`
	Frequency *FrequencyTable `db:"-"`
	Draws     []*Draw         `db:"-"` // Only kept in memory for export
}

// NewGenerationRun creates a run with a fresh ID
func NewGenerationRun(fromYear, toYear, topK, requested int, seed *uint64) *GenerationRun {
	return &GenerationRun{
		ID:        uuid.New(),
		FromYear:  fromYear,
		ToYear:    toYear,
		TopK:      topK,
		Requested: requested,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}
}

// Produced returns the number of tickets in the run
func (r *GenerationRun) Produced() int {
	return len(r.Tickets)
}

// IsPartial reports whether the generator gave up before reaching the requested count
func (r *GenerationRun) IsPartial() bool {
	return len(r.Tickets) < r.Requested
}
