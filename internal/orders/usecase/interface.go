// Package usecase implements order lifecycle operations and the listeners that advance
// orders when other modules publish events.
package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	"github.com/wingedsheep/eco-logique/internal/orders/domain"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// OrderRepository defines persistence for orders and their lines.
type OrderRepository interface {
	// Create inserts the order and all of its lines.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID returns ErrOrderNotFound when the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// GetByIDForUpdate is GetByID with the order row locked until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// ListByOwner returns the owner's orders, newest first.
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*domain.Order, error)

	// Update persists status, payment id and updated_at.
	Update(ctx context.Context, order *domain.Order) error
}

// EventPublisher appends events to the outbox within the caller's transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event outboxDomain.Event) error
}

// ReservationReader exposes the active stock reservations held for a correlation id.
type ReservationReader interface {
	ListActiveReservations(ctx context.Context, correlationID string) ([]*inventoryDomain.StockReservation, error)
}

// CreateOrderLineInput is one line of a new order.
type CreateOrderLineInput struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// CreateOrderInput is the request to create an order.
type CreateOrderInput struct {
	OwnerID  string                 `json:"owner_id"`
	Currency string                 `json:"currency"`
	Lines    []CreateOrderLineInput `json:"lines"`
}

// UseCase defines the order operations.
type UseCase interface {
	// CreateOrder persists a CREATED order and publishes order.created.
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	ListOrdersByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*domain.Order, error)

	// UpdateStatus moves the order to target under a row lock. An illegal move,
	// including one to the status the order already has, fails with
	// *domain.InvalidTransitionError.
	UpdateStatus(ctx context.Context, id uuid.UUID, target domain.OrderStatus) (*domain.Order, error)

	// MarkReserved moves the order to RESERVED once the active reservations read under
	// the order lock cover every line, and fails with domain.ErrReservationIncomplete
	// otherwise.
	MarkReserved(ctx context.Context, id uuid.UUID, reservations ReservationReader) (*domain.Order, error)

	// MarkPaid records the payment id and moves the order to PAID. A PAID order
	// without that payment id gets it recorded.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID string) (*domain.Order, error)
}
