package infrastructure

import (
	"fmt"

	"lottogen/domain/events"
)

// DomainEventStream is the JetStream stream holding every published domain event
const DomainEventStream = "lottogen_events"

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeTicketsGenerated:
		return "lottogen.tickets.generated"
	case events.EventTypeDrawsRefreshed:
		return "lottogen.draws.refreshed"
	default:
		return fmt.Sprintf("lottogen.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"lottogen.tickets.generated",
		"lottogen.draws.refreshed",
		"lottogen.unknown.>",
	}
}
