package events

import "github.com/google/uuid"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketsGenerated EventType = "tickets_generated"
	EventTypeDrawsRefreshed   EventType = "draws_refreshed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TicketsGeneratedEvent is emitted after a generation run completes
type TicketsGeneratedEvent struct {
	RunID     uuid.UUID `json:"run_id"`
	Requested int       `json:"requested"`
	Produced  int       `json:"produced"`
	TopK      int       `json:"top_k"`
	Partial   bool      `json:"partial"`
	Tickets   [][]int   `json:"tickets"`
}

func (e TicketsGeneratedEvent) Type() EventType {
	return EventTypeTicketsGenerated
}

// DrawsRefreshedEvent is emitted when the draw history has been reloaded
type DrawsRefreshedEvent struct {
	DrawCount int `json:"draw_count"`
	FromYear  int `json:"from_year"`
	ToYear    int `json:"to_year"`
}

func (e DrawsRefreshedEvent) Type() EventType {
	return EventTypeDrawsRefreshed
}
