package application

import (
	"context"
	"sync/atomic"
	"time"

	"lottogen/domain/events"
	"lottogen/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RefreshWorker keeps an up-to-date draw history for the HTTP API
type RefreshWorker struct {
	workflow  *GenerationWorkflow
	publisher interfaces.EventPublisher
	fromYear  int
	interval  time.Duration
	now       func() time.Time
	current   atomic.Pointer[History]
}

// NewRefreshWorker creates a worker reloading [fromYear, current year] every interval
func NewRefreshWorker(workflow *GenerationWorkflow, publisher interfaces.EventPublisher, fromYear int, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		workflow:  workflow,
		publisher: publisher,
		fromYear:  fromYear,
		interval:  interval,
		now:       time.Now,
	}
}

// Current returns the latest history, nil before the first successful refresh
func (w *RefreshWorker) Current() *History {
	return w.current.Load()
}

// Refresh reloads the history now. A failed refresh keeps the previous history.
func (w *RefreshWorker) Refresh(ctx context.Context) error {
	history, err := w.workflow.LoadHistory(ctx, w.fromYear, w.now().Year())
	if err != nil {
		return err
	}
	w.current.Store(history)

	log.WithFields(log.Fields{
		"draws":     len(history.Draws),
		"from_year": history.FromYear,
		"to_year":   history.ToYear,
	}).Info("Draw history refreshed")

	if w.publisher != nil {
		event := events.DrawsRefreshedEvent{
			DrawCount: len(history.Draws),
			FromYear:  history.FromYear,
			ToYear:    history.ToYear,
		}
		if err := w.publisher.Publish(event); err != nil {
			log.WithError(err).Warn("Failed to publish draws refreshed event")
		}
	}
	return nil
}

// Start refreshes immediately and then every interval until ctx is cancelled
// or the returned stop function is called
func (w *RefreshWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("Refresh worker started")

		for {
			if err := w.Refresh(ctx); err != nil {
				log.WithError(err).Error("Failed to refresh draw history")
			}

			select {
			case <-ctx.Done():
				log.Info("Refresh worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Refresh worker shutting down (stop requested)...")
				return
			case <-time.After(w.interval):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}
