package interfaces

import (
	"context"

	"lottogen/domain/entities"
	"lottogen/domain/events"
)

// RandomSource is the only source of randomness used by ticket generation.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64

	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// DrawSource loads the historical draws for a range of archive years
type DrawSource interface {
	LoadDraws(ctx context.Context, fromYear, toYear int) ([]*entities.Draw, error)
}

// ResultSink receives a completed generation run for persistence or display
type ResultSink interface {
	// Name identifies the sink in logs
	Name() string

	// Deliver hands over the run
	Deliver(ctx context.Context, run *entities.GenerationRun) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
