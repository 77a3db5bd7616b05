// Package domain defines checkout results and failures.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/errors"
	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
	paymentDomain "github.com/wingedsheep/eco-logique/internal/payment/domain"
)

// Result is the outcome of a successful checkout or payment retry.
type Result struct {
	OrderID       uuid.UUID
	OrderStatus   ordersDomain.OrderStatus
	PaymentID     uuid.UUID
	PaymentStatus paymentDomain.PaymentStatus
}

// PaymentFailedError reports a failed payment for an order. The order keeps its
// reservations and stays in PAYMENT_PENDING so payment can be retried.
type PaymentFailedError struct {
	OrderID   uuid.UUID
	PaymentID *uuid.UUID
	Reason    string
}

func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("payment failed for order %s: %s", e.OrderID, e.Reason)
}

// Unwrap lets callers match the error against errors.ErrPaymentRequired.
func (e *PaymentFailedError) Unwrap() error {
	return errors.ErrPaymentRequired
}

// Details returns the fields exposed to API clients.
func (e *PaymentFailedError) Details() map[string]any {
	details := map[string]any{
		"order_id": e.OrderID.String(),
		"reason":   e.Reason,
	}
	if e.PaymentID != nil {
		details["payment_id"] = e.PaymentID.String()
	}
	return details
}

// Domain-specific errors for checkout operations.
var (
	// ErrEmptyCart indicates a checkout of a cart without items.
	ErrEmptyCart = errors.Wrap(errors.ErrInvalidInput, "cart is empty")

	// ErrOrderCreationFailed indicates the order could not be persisted.
	ErrOrderCreationFailed = errors.Wrap(errors.ErrUnavailable, "order creation failed")

	// ErrOrderNotAwaitingPayment indicates a payment retry for an order that is not
	// in PAYMENT_PENDING.
	ErrOrderNotAwaitingPayment = errors.Wrap(errors.ErrConflict, "order is not awaiting payment")
)
