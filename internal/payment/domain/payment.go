// Package domain defines payments and the gateway outcomes the checkout reacts to.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// PaymentStatus is the outcome of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment records one charge against an order. ProviderReference is the gateway's id
// for a completed charge, used for reconciliation and refunds.
type Payment struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	Amount            decimal.Decimal
	Currency          string
	Method            string
	Status            PaymentStatus
	FailureReason     *string
	ProviderReference *string
	Attempts          int
	CreatedAt         time.Time
}

// PaymentDeclinedError reports a charge the provider refused. It is final and never retried.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Reason)
}

// Unwrap lets callers match the error against errors.ErrPaymentRequired.
func (e *PaymentDeclinedError) Unwrap() error {
	return errors.ErrPaymentRequired
}

// Domain-specific errors for payment operations.
var (
	// ErrProviderUnavailable indicates a transient gateway failure.
	ErrProviderUnavailable = errors.Wrap(errors.ErrUnavailable, "payment provider unavailable")

	// ErrPaymentNotFound indicates the payment does not exist.
	ErrPaymentNotFound = errors.Wrap(errors.ErrNotFound, "payment not found")
)
