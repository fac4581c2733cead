package infrastructure

import (
	"lottogen/domain/events"
	"lottogen/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops every event. Used when NATS_SERVERS is unset or unreachable.
type NoopEventPublisher struct{}

var _ interfaces.EventPublisher = (*NoopEventPublisher)(nil)

// NewNoopEventPublisher creates a publisher that drops events
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish logs the dropped event type at debug level
func (n *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("event_type", event.Type()).Debug("Event dropped, no broker configured")
	return nil
}
