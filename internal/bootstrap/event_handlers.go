package bootstrap

import (
	"context"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/metrics"
)

// EventHandlers holds the subscribers registered on the bus
type EventHandlers struct {
	Metrics     *metrics.EventMetricsCollector
	configAudit event.Subscription
}

// RegisterEventHandlers sets up every authority-side subscriber:
//   - Metrics collector (event-based Prometheus counters)
//   - Config audit logger (one log line per config save)
func RegisterEventHandlers(bus event.Bus) *EventHandlers {
	collector := metrics.NewEventMetricsCollector()
	collector.Register(bus)
	logger.Info(LogMsgMetricsCollectorRegistered)

	audit := bus.Subscribe(event.ConfigUpdated, func(ctx context.Context, evt event.Event) error {
		p, err := event.DecodePayload[domain.ConfigUpdatedPayload](evt.Payload)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info(LogMsgConfigAudit, "version", p.Version, "valid", p.Valid)
		return nil
	})
	logger.Info(LogMsgConfigAuditRegistered)

	return &EventHandlers{Metrics: collector, configAudit: audit}
}

// Unregister removes every subscription
func (h *EventHandlers) Unregister() {
	h.Metrics.Unregister()
	h.configAudit.Unsubscribe()
}
