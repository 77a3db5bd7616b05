// Package usecase implements shipping of paid orders.
package usecase

import (
	"context"

	"github.com/google/uuid"

	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
	"github.com/wingedsheep/eco-logique/internal/shipping/domain"
)

// ShipmentRepository defines persistence for shipments.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.Shipment) error

	// GetByID returns ErrShipmentNotFound when the shipment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)

	// GetByIDForUpdate is GetByID holding a row lock until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)

	// GetByOrder returns nil, nil when the order has no shipment.
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error)

	Update(ctx context.Context, shipment *domain.Shipment) error
}

// OrderReader loads orders to check they can be shipped.
type OrderReader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*ordersDomain.Order, error)
}

// EventPublisher stores events in the outbox within the caller's transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event outboxDomain.Event) error
}

// ShipInput hands an order to a carrier.
type ShipInput struct {
	OrderID        uuid.UUID `json:"order_id"`
	Carrier        string    `json:"carrier"`
	TrackingNumber string    `json:"tracking_number"`
}

// UseCase defines the shipping operations.
type UseCase interface {
	// Ship creates the shipment of a PAID order and publishes shipping.shipped.
	Ship(ctx context.Context, input ShipInput) (*domain.Shipment, error)

	// MarkDelivered confirms delivery and publishes shipping.delivered.
	MarkDelivered(ctx context.Context, shipmentID uuid.UUID) (*domain.Shipment, error)

	GetShipment(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)
}
