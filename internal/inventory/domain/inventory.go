// Package domain defines the inventory reservation ledger: stock per product and
// warehouse, and the reservations held against it.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// InventoryItem is the stock of one product in one warehouse.
// Invariant: 0 <= QuantityReserved <= QuantityOnHand.
type InventoryItem struct {
	ProductID        string
	WarehouseID      string
	QuantityOnHand   int
	QuantityReserved int
	UpdatedAt        time.Time
}

// Available is the quantity that can still be reserved.
func (i *InventoryItem) Available() int {
	return i.QuantityOnHand - i.QuantityReserved
}

// ReservationStatus is the state of a StockReservation.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// StockReservation holds Quantity units of a product in one warehouse on behalf of
// CorrelationID, which is the order id for checkout reservations.
type StockReservation struct {
	ID            uuid.UUID
	ProductID     string
	WarehouseID   string
	Quantity      int
	CorrelationID string
	Status        ReservationStatus
	CreatedAt     time.Time
}

// WarehouseStock is the stock level of a product in one warehouse.
type WarehouseStock struct {
	WarehouseID string
	OnHand      int
	Reserved    int
	Available   int
}

// StockLevel aggregates a product's stock across warehouses.
type StockLevel struct {
	ProductID      string
	TotalAvailable int
	TotalReserved  int
	PerWarehouse   []WarehouseStock
}

// NewStockLevel summarizes items, which must all belong to productID.
func NewStockLevel(productID string, items []*InventoryItem) StockLevel {
	level := StockLevel{ProductID: productID, PerWarehouse: make([]WarehouseStock, 0, len(items))}
	for _, item := range items {
		level.TotalAvailable += item.Available()
		level.TotalReserved += item.QuantityReserved
		level.PerWarehouse = append(level.PerWarehouse, WarehouseStock{
			WarehouseID: item.WarehouseID,
			OnHand:      item.QuantityOnHand,
			Reserved:    item.QuantityReserved,
			Available:   item.Available(),
		})
	}
	return level
}

// Allocation is the share of a reservation taken from one warehouse.
type Allocation struct {
	Item     *InventoryItem
	Quantity int
}

// Allocate distributes quantity over items first-fit in the given order and increases
// each touched item's reserved count. Nothing is modified when the total available
// stock is insufficient.
func Allocate(productID string, items []*InventoryItem, quantity int) ([]Allocation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	total := 0
	for _, item := range items {
		total += item.Available()
	}
	if total < quantity {
		return nil, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: total}
	}

	var allocations []Allocation
	remaining := quantity
	for _, item := range items {
		if remaining == 0 {
			break
		}
		take := min(item.Available(), remaining)
		if take <= 0 {
			continue
		}
		item.QuantityReserved += take
		remaining -= take
		allocations = append(allocations, Allocation{Item: item, Quantity: take})
	}
	return allocations, nil
}

// InsufficientStockError reports that a product cannot cover a requested quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Unwrap lets callers match the error against errors.ErrConflict.
func (e *InsufficientStockError) Unwrap() error {
	return errors.ErrConflict
}

// Domain-specific errors for inventory operations.
var (
	// ErrProductNotFound indicates no warehouse holds the product.
	ErrProductNotFound = errors.Wrap(errors.ErrNotFound, "product not found")

	// ErrReservationNotFound indicates the reservation does not exist or was already released.
	ErrReservationNotFound = errors.Wrap(errors.ErrNotFound, "reservation not found")

	// ErrInvalidQuantity indicates a quantity that is not positive.
	ErrInvalidQuantity = errors.Wrap(errors.ErrInvalidInput, "quantity must be greater than zero")

	// ErrOnHandBelowReserved indicates a stock update that would drop below the reserved quantity.
	ErrOnHandBelowReserved = errors.Wrap(errors.ErrConflict, "quantity on hand cannot be lower than reserved quantity")

	// ErrInventoryUnavailable indicates the ledger could not be reached.
	ErrInventoryUnavailable = errors.Wrap(errors.ErrUnavailable, "inventory unavailable")
)

// Details exposes the shortfall to API clients.
func (e *InsufficientStockError) Details() map[string]any {
	return map[string]any{
		"product_id": e.ProductID,
		"requested":  e.Requested,
		"available":  e.Available,
	}
}
