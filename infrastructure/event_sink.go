package infrastructure

import (
	"context"

	"lottogen/domain/entities"
	"lottogen/domain/events"
	"lottogen/domain/interfaces"
)

// EventSink announces finished runs on the event bus
type EventSink struct {
	publisher interfaces.EventPublisher
}

var _ interfaces.ResultSink = (*EventSink)(nil)

// NewEventSink creates a sink publishing a TicketsGeneratedEvent per run
func NewEventSink(publisher interfaces.EventPublisher) *EventSink {
	return &EventSink{publisher: publisher}
}

// Name identifies the sink in logs
func (s *EventSink) Name() string {
	return "events"
}

// Deliver publishes the run summary
func (s *EventSink) Deliver(ctx context.Context, run *entities.GenerationRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.publisher.Publish(NewTicketsGeneratedEvent(run))
}

// NewTicketsGeneratedEvent summarises a run as a domain event
func NewTicketsGeneratedEvent(run *entities.GenerationRun) events.TicketsGeneratedEvent {
	tickets := make([][]int, len(run.Tickets))
	for i, t := range run.Tickets {
		tickets[i] = t.Slice()
	}
	return events.TicketsGeneratedEvent{
		RunID:     run.ID,
		Requested: run.Requested,
		Produced:  run.Produced(),
		TopK:      run.TopK,
		Partial:   run.IsPartial(),
		Tickets:   tickets,
	}
}
