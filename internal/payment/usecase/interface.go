// Package usecase implements payment processing against a provider gateway.
package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
	"github.com/wingedsheep/eco-logique/internal/payment/domain"
	"github.com/wingedsheep/eco-logique/internal/payment/gateway"
)

// PaymentRepository defines persistence for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID returns ErrPaymentNotFound when the payment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error)
}

// Gateway charges a payment method through a provider. Declines are returned as
// *domain.PaymentDeclinedError; errors matching errors.ErrUnavailable are transient.
type Gateway interface {
	Charge(ctx context.Context, req gateway.ChargeRequest) (string, error)
}

// EventPublisher appends events to the outbox within the caller's transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event outboxDomain.Event) error
}

// ProcessPaymentInput is a request to charge an order.
type ProcessPaymentInput struct {
	OrderID       uuid.UUID       `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
}

// UseCase defines the payment operations.
type UseCase interface {
	// ProcessPayment charges the order and records the outcome. A completed payment is
	// returned with a nil error. A declined or abandoned payment is still recorded, and
	// the cause is returned.
	ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*domain.Payment, error)

	GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error)
}
