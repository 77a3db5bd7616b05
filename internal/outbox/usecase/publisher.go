package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

type outboxPublisher struct {
	outboxRepo OutboxEventRepository
	registry   *domain.Registry
}

// NewPublisher creates a Publisher that writes through outboxRepo. Only event types
// known to registry can be published.
func NewPublisher(outboxRepo OutboxEventRepository, registry *domain.Registry) Publisher {
	return &outboxPublisher{
		outboxRepo: outboxRepo,
		registry:   registry,
	}
}

func (p *outboxPublisher) Publish(ctx context.Context, event domain.Event) error {
	if !database.InTx(ctx) {
		return domain.ErrPreconditionViolated
	}

	eventType := event.EventType()
	if !p.registry.IsRegistered(eventType) {
		return apperrors.Wrapf(domain.ErrUnknownEventType, "event type %q", eventType)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrapf(err, "failed to marshal %s payload", eventType)
	}

	record := &domain.OutboxEvent{
		ID:            uuid.Must(uuid.NewV7()),
		EventType:     eventType,
		Payload:       string(payload),
		AggregateType: optional(event.AggregateType()),
		AggregateID:   optional(event.AggregateID()),
		Status:        domain.OutboxEventStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	return p.outboxRepo.Create(ctx, record)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
