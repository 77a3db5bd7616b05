package usecase

import (
	"context"
	"log/slog"

	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// EventDispatcher is the EventProcessor used by the outbox worker: it decodes a record
// through the registry and hands the event to the bus.
type EventDispatcher struct {
	registry *domain.Registry
	bus      *EventBus
	logger   *slog.Logger
}

// NewEventDispatcher creates an EventDispatcher.
func NewEventDispatcher(registry *domain.Registry, bus *EventBus, logger *slog.Logger) *EventDispatcher {
	return &EventDispatcher{
		registry: registry,
		bus:      bus,
		logger:   orDiscard(logger),
	}
}

// Process decodes and dispatches one record. Unknown event types and listener
// failures are returned so the record is retried.
func (d *EventDispatcher) Process(ctx context.Context, record *domain.OutboxEvent) error {
	event, err := d.registry.Decode(record.EventType, []byte(record.Payload))
	if err != nil {
		return err
	}

	if d.bus.HandlerCount(record.EventType) == 0 {
		d.logger.Debug("no listeners for event",
			slog.String("event_id", record.ID.String()),
			slog.String("event_type", record.EventType),
		)
		return nil
	}

	return d.bus.Dispatch(ctx, event)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
