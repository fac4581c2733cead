package infrastructure

import (
	"context"

	"lottogen/domain/entities"
	"lottogen/domain/interfaces"
)

// RunStoreSink persists finished runs
type RunStoreSink struct {
	repo interfaces.GenerationRunRepository
}

var _ interfaces.ResultSink = (*RunStoreSink)(nil)

// NewRunStoreSink creates a sink writing runs to the repository
func NewRunStoreSink(repo interfaces.GenerationRunRepository) *RunStoreSink {
	return &RunStoreSink{repo: repo}
}

// Name identifies the sink in logs
func (s *RunStoreSink) Name() string {
	return "database"
}

// Deliver stores the run with its tickets
func (s *RunStoreSink) Deliver(ctx context.Context, run *entities.GenerationRun) error {
	return s.repo.Create(ctx, run)
}
