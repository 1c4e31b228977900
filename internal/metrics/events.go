package metrics

import (
	"context"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct {
	subs []event.Subscription
}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to the authority-side events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.SpinIssued,
		event.SpinClaimed,
		event.ConfigUpdated,
		event.SpendRecorded,
	}

	for _, eventType := range eventTypes {
		e.subs = append(e.subs, bus.Subscribe(eventType, e.HandleEvent))
	}
}

// Unregister removes every subscription made by Register
func (e *EventMetricsCollector) Unregister() {
	for _, sub := range e.subs {
		sub.Unsubscribe()
	}
	e.subs = nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.SpinClaimed:
		var p domain.SpinClaimedPayload
		if p, err = event.DecodePayload[domain.SpinClaimedPayload](evt.Payload); err == nil && !p.AlreadyClaimed {
			SpinsClaimed.WithLabelValues(string(p.Type)).Inc()
			RewardsPaid.WithLabelValues(string(p.Type)).Add(p.Amount)
		}

	case event.ConfigUpdated:
		var p domain.ConfigUpdatedPayload
		if p, err = event.DecodePayload[domain.ConfigUpdatedPayload](evt.Payload); err == nil {
			valid := "false"
			if p.Valid {
				valid = "true"
			}
			ConfigUpdates.WithLabelValues(valid).Inc()
		}

	case event.SpendRecorded:
		var p domain.SpendRecordedPayload
		if p, err = event.DecodePayload[domain.SpendRecordedPayload](evt.Payload); err == nil {
			ThresholdSpinsAwarded.Add(float64(p.SpinsAwarded))
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
