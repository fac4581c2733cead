package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lottogen/domain/entities"
	"lottogen/domain/interfaces"
	"lottogen/domain/services"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidRequest is returned for generation requests that cannot be served
var ErrInvalidRequest = errors.New("invalid generation request")

// GenerationRecorder receives generation metrics
type GenerationRecorder interface {
	RecordGeneration(ctx context.Context, outcome string, produced int, duration time.Duration)
}

// Generation outcomes reported to the recorder
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
)

// GenerationRequest describes one batch of tickets to produce
type GenerationRequest struct {
	FromYear int
	ToYear   int
	Count    int
	TopK     int
	Seed     *uint64 // nil draws from an unseeded source
}

// Validate checks the request bounds
func (r GenerationRequest) Validate() error {
	if r.Count < 1 {
		return fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidRequest, r.Count)
	}
	if r.TopK < 1 || r.TopK > entities.MaxNumber {
		return fmt.Errorf("%w: top_k must be between 1 and %d, got %d", ErrInvalidRequest, entities.MaxNumber, r.TopK)
	}
	if r.FromYear > r.ToYear {
		return fmt.Errorf("%w: year range %d-%d is reversed", ErrInvalidRequest, r.FromYear, r.ToYear)
	}
	return nil
}

// History is a loaded draw history with its frequency table
type History struct {
	Draws     []*entities.Draw
	Frequency *entities.FrequencyTable
	FromYear  int
	ToYear    int
	LoadedAt  time.Time
}

type sinkEntry struct {
	sink     interfaces.ResultSink
	required bool
}

// GenerationWorkflow loads draw history, generates tickets and hands the run to its sinks
type GenerationWorkflow struct {
	source   interfaces.DrawSource
	drawRepo interfaces.DrawRepository
	sinks    []sinkEntry
	metrics  GenerationRecorder
}

// NewGenerationWorkflow creates a workflow. drawRepo and metrics may be nil.
func NewGenerationWorkflow(source interfaces.DrawSource, drawRepo interfaces.DrawRepository, metrics GenerationRecorder) *GenerationWorkflow {
	return &GenerationWorkflow{
		source:   source,
		drawRepo: drawRepo,
		metrics:  metrics,
	}
}

// AddSink appends a sink. Failures of a required sink fail the run; other
// failures are only logged.
func (w *GenerationWorkflow) AddSink(sink interfaces.ResultSink, required bool) *GenerationWorkflow {
	w.sinks = append(w.sinks, sinkEntry{sink: sink, required: required})
	return w
}

// LoadHistory reads draws for the year range and stores them when a repository is configured
func (w *GenerationWorkflow) LoadHistory(ctx context.Context, fromYear, toYear int) (*History, error) {
	draws, err := w.source.LoadDraws(ctx, fromYear, toYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load draws: %w", err)
	}

	if w.drawRepo != nil {
		inserted, err := w.drawRepo.UpsertBatch(ctx, draws)
		if err != nil {
			log.WithError(err).Warn("Failed to persist draws")
		} else {
			log.WithFields(log.Fields{
				"draws":    len(draws),
				"inserted": inserted,
			}).Debug("Persisted draws")
		}
	}

	return &History{
		Draws:     draws,
		Frequency: entities.NewFrequencyTable(draws),
		FromYear:  fromYear,
		ToYear:    toYear,
		LoadedAt:  time.Now().UTC(),
	}, nil
}

// Run loads the history for the request's years and generates from it
func (w *GenerationWorkflow) Run(ctx context.Context, req GenerationRequest) (*entities.GenerationRun, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	history, err := w.LoadHistory(ctx, req.FromYear, req.ToYear)
	if err != nil {
		w.record(ctx, OutcomeFailed, 0, 0)
		return nil, err
	}

	log.WithFields(log.Fields{
		"draws":     len(history.Draws),
		"from_year": req.FromYear,
		"to_year":   req.ToYear,
	}).Info("Loaded draw history")

	return w.Generate(ctx, history, req)
}

// Generate draws a batch from an already loaded history and delivers the run to every sink
func (w *GenerationWorkflow) Generate(ctx context.Context, history *History, req GenerationRequest) (*entities.GenerationRun, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	opts := services.DefaultGeneratorOptions()
	opts.TopK = req.TopK
	generator := services.NewTicketGenerator(services.NewRandomSource(req.Seed), opts)

	run := entities.NewGenerationRun(history.FromYear, history.ToYear, req.TopK, req.Count, req.Seed)
	run.DrawCount = len(history.Draws)
	run.Draws = history.Draws
	run.Frequency = history.Frequency
	run.Tickets = generator.GenerateBatch(history.Frequency, req.Count)

	outcome := OutcomeComplete
	if run.IsPartial() {
		outcome = OutcomePartial
		log.WithFields(log.Fields{
			"requested": run.Requested,
			"produced":  run.Produced(),
		}).Warn("Generated fewer distinct tickets than requested")
	}

	for _, entry := range w.sinks {
		if err := entry.sink.Deliver(ctx, run); err != nil {
			if entry.required {
				w.record(ctx, OutcomeFailed, run.Produced(), time.Since(start))
				return nil, fmt.Errorf("%s sink failed: %w", entry.sink.Name(), err)
			}
			log.WithError(err).WithField("sink", entry.sink.Name()).Warn("Result sink failed")
		}
	}

	w.record(ctx, outcome, run.Produced(), time.Since(start))
	return run, nil
}

func (w *GenerationWorkflow) record(ctx context.Context, outcome string, produced int, duration time.Duration) {
	if w.metrics != nil {
		w.metrics.RecordGeneration(ctx, outcome, produced, duration)
	}
}
