// Package usecase implements the inventory reservation ledger operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// InventoryItemRepository defines persistence for per-warehouse stock.
type InventoryItemRepository interface {
	// ListByProduct returns the product's items ordered by warehouse id.
	ListByProduct(ctx context.Context, productID string) ([]*domain.InventoryItem, error)

	// ListByProductForUpdate is ListByProduct with the rows locked until the transaction ends.
	ListByProductForUpdate(ctx context.Context, productID string) ([]*domain.InventoryItem, error)

	// GetForUpdate locks and returns one item. Returns nil and no error when it does not exist.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*domain.InventoryItem, error)

	// Save inserts the item or updates its quantities.
	Save(ctx context.Context, item *domain.InventoryItem) error

	ProductExists(ctx context.Context, productID string) (bool, error)
}

// ReservationRepository defines persistence for stock reservations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.StockReservation) error

	// GetForUpdate locks and returns a reservation. Returns ErrReservationNotFound when missing.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.StockReservation, error)

	UpdateStatus(ctx context.Context, reservation *domain.StockReservation) error

	ListActiveByCorrelation(ctx context.Context, correlationID string) ([]*domain.StockReservation, error)
}

// EventPublisher appends events to the outbox within the caller's transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event outboxDomain.Event) error
}

// ReserveStockInput is the request to reserve a product quantity.
type ReserveStockInput struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	CorrelationID string `json:"correlation_id"`
}

// SetStockInput sets the on-hand quantity of a product in a warehouse.
type SetStockInput struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	OnHand      int    `json:"on_hand"`
}

// UseCase defines the inventory ledger operations.
type UseCase interface {
	// CheckStock aggregates the product's stock across warehouses.
	// Returns ErrProductNotFound when no warehouse holds the product.
	CheckStock(ctx context.Context, productID string) (*domain.StockLevel, error)

	// ReserveStock reserves the quantity first-fit across warehouses, creating one
	// reservation per warehouse touched. Either every reservation is committed or none.
	ReserveStock(ctx context.Context, input ReserveStockInput) ([]*domain.StockReservation, error)

	// ReleaseReservation returns the reserved quantity to its warehouse. A second call
	// for the same reservation fails with ErrReservationNotFound.
	ReleaseReservation(ctx context.Context, reservationID uuid.UUID) error

	ListActiveReservations(ctx context.Context, correlationID string) ([]*domain.StockReservation, error)

	// ReleaseByCorrelation releases every active reservation of correlationID and
	// returns how many were released.
	ReleaseByCorrelation(ctx context.Context, correlationID string) (int, error)

	SetStock(ctx context.Context, input SetStockInput) (*domain.InventoryItem, error)

	ProductExists(ctx context.Context, productID string) (bool, error)
}
