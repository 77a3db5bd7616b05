// Package usecase implements the transactional outbox: publishing events inside business
// transactions, delivering them to in-process listeners and housekeeping the table.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// OutboxEventRepository defines outbox persistence. Implementations read the active
// transaction from ctx via database.GetTx.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error

	// GetPendingEvents claims up to limit pending events ordered by creation time,
	// skipping rows locked by concurrent processors.
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)

	Update(ctx context.Context, event *domain.OutboxEvent) error

	// DeleteProcessedOlderThan removes (or with dryRun only counts) processed events
	// whose processed_at is before cutoff.
	DeleteProcessedOlderThan(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error)

	CountByStatus(ctx context.Context) (map[domain.OutboxEventStatus]int64, error)

	// RequeueFailed moves failed events back to pending. Empty ids means all.
	RequeueFailed(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// EventProcessor delivers a single claimed outbox record.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// Publisher appends events to the outbox as part of the caller's transaction.
type Publisher interface {
	// Publish stores event as a pending outbox record. It fails with
	// domain.ErrPreconditionViolated when ctx carries no transaction.
	Publish(ctx context.Context, event domain.Event) error
}

// UseCase defines the outbox processor.
type UseCase interface {
	// Start polls the outbox on the configured interval until ctx is cancelled.
	Start(ctx context.Context) error
	// ProcessEvents runs a single claim-and-deliver cycle in one transaction.
	ProcessEvents(ctx context.Context) error
}

// MaintenanceUseCase groups the operator-facing outbox operations.
type MaintenanceUseCase interface {
	// DeleteProcessedOlderThan removes processed events older than days. With dryRun
	// the matching events are only counted.
	DeleteProcessedOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)

	// RunCleanup deletes expired processed events every interval until ctx is cancelled.
	RunCleanup(ctx context.Context) error

	// Stats returns the number of events per status.
	Stats(ctx context.Context) (map[domain.OutboxEventStatus]int64, error)

	// RequeueFailed returns failed events to pending. Either ids must be non-empty or
	// all must be true.
	RequeueFailed(ctx context.Context, ids []uuid.UUID, all bool) (int64, error)
}
