package metrics

import (
	"context"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/event"
	"github.com/casevault/backend/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.DrawResolved,
		event.DrawRecovered,
		event.BattleCompleted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.DrawResolved, event.DrawRecovered:
		payload, err := event.DecodePayload[domain.DrawResolvedPayload](evt.Payload)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to decode draw payload for metrics", "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		PayoutCents.Add(float64(payload.Payout))
	case event.BattleCompleted:
		payload, err := event.DecodePayload[domain.BattleCompletedPayload](evt.Payload)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to decode battle payload for metrics", "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		BattlesCompleted.WithLabelValues(payload.CaseID).Inc()
	}

	return nil
}
