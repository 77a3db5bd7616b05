// Package domain defines the transactional outbox record, the event contract and the
// registry that maps stored event type tags back to concrete events.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// OutboxEventStatus represents the delivery state of an outbox record.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "PENDING"
	OutboxEventStatusProcessed OutboxEventStatus = "PROCESSED"
	OutboxEventStatusFailed    OutboxEventStatus = "FAILED"
)

// OutboxEvent is one row of the outbox table. It is written inside the business
// transaction that produced the event and afterwards mutated only by the processor.
type OutboxEvent struct {
	ID            uuid.UUID
	EventType     string
	Payload       string
	AggregateType *string
	AggregateID   *string
	Status        OutboxEventStatus
	RetryCount    int
	LastError     *string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
}

// MarkProcessed records a successful delivery. LastError is kept for diagnostics.
func (e *OutboxEvent) MarkProcessed(now time.Time) {
	e.Status = OutboxEventStatusProcessed
	e.ProcessedAt = &now
}

// MarkAttemptFailed records a failed delivery. The record becomes Failed once its
// retry count reaches maxRetries and otherwise stays Pending for the next cycle.
func (e *OutboxEvent) MarkAttemptFailed(cause error, maxRetries int) {
	e.RetryCount++
	msg := cause.Error()
	e.LastError = &msg
	if e.RetryCount >= maxRetries {
		e.Status = OutboxEventStatusFailed
	}
}

// Event is a domain event that can be stored in the outbox.
type Event interface {
	// EventType returns the stable tag stored in the event_type column.
	EventType() string
	// AggregateType names the aggregate the event belongs to, e.g. "order".
	AggregateType() string
	// AggregateID identifies the aggregate instance.
	AggregateID() string
}

// Outbox errors.
var (
	// ErrPreconditionViolated is returned by Publish outside of a transaction.
	ErrPreconditionViolated = errors.Wrap(errors.ErrPreconditionFailed, "outbox publish requires an active transaction")

	// ErrUnknownEventType indicates no decoder is registered for an event type tag.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrEventTypeAlreadyRegistered indicates a tag was registered twice.
	ErrEventTypeAlreadyRegistered = errors.Wrap(errors.ErrConflict, "event type already registered")

	// ErrInvalidRequeueRequest indicates neither ids nor the all flag were given.
	ErrInvalidRequeueRequest = errors.Wrap(errors.ErrInvalidInput, "either event ids or all must be provided")
)
