package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type tags published by the payment module.
const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
)

const aggregateType = "payment"

// PaymentCompleted is published when a charge succeeds.
type PaymentCompleted struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

func (PaymentCompleted) EventType() string     { return EventTypePaymentCompleted }
func (PaymentCompleted) AggregateType() string { return aggregateType }
func (e PaymentCompleted) AggregateID() string { return e.PaymentID.String() }

// PaymentFailed is published when a charge is declined or the provider gives up.
type PaymentFailed struct {
	PaymentID uuid.UUID `json:"payment_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Reason    string    `json:"reason"`
}

func (PaymentFailed) EventType() string     { return EventTypePaymentFailed }
func (PaymentFailed) AggregateType() string { return aggregateType }
func (e PaymentFailed) AggregateID() string { return e.PaymentID.String() }
