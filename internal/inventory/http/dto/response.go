package dto

import (
	"time"

	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
)

// WarehouseStockResponse is one warehouse line of a stock level.
type WarehouseStockResponse struct {
	WarehouseID string `json:"warehouse_id"`
	OnHand      int    `json:"on_hand"`
	Reserved    int    `json:"reserved"`
	Available   int    `json:"available"`
}

// StockLevelResponse represents a product's stock across warehouses.
type StockLevelResponse struct {
	ProductID      string                   `json:"product_id"`
	TotalAvailable int                      `json:"total_available"`
	TotalReserved  int                      `json:"total_reserved"`
	PerWarehouse   []WarehouseStockResponse `json:"per_warehouse"`
}

// MapStockLevelToResponse converts a domain stock level to its API representation.
func MapStockLevelToResponse(level *domain.StockLevel) StockLevelResponse {
	perWarehouse := make([]WarehouseStockResponse, 0, len(level.PerWarehouse))
	for _, w := range level.PerWarehouse {
		perWarehouse = append(perWarehouse, WarehouseStockResponse{
			WarehouseID: w.WarehouseID,
			OnHand:      w.OnHand,
			Reserved:    w.Reserved,
			Available:   w.Available,
		})
	}
	return StockLevelResponse{
		ProductID:      level.ProductID,
		TotalAvailable: level.TotalAvailable,
		TotalReserved:  level.TotalReserved,
		PerWarehouse:   perWarehouse,
	}
}

// InventoryItemResponse represents the stock of a product in one warehouse.
type InventoryItemResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	OnHand      int       `json:"on_hand"`
	Reserved    int       `json:"reserved"`
	Available   int       `json:"available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapInventoryItemToResponse converts a domain inventory item to its API representation.
func MapInventoryItemToResponse(item *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ProductID:   item.ProductID,
		WarehouseID: item.WarehouseID,
		OnHand:      item.QuantityOnHand,
		Reserved:    item.QuantityReserved,
		Available:   item.Available(),
		UpdatedAt:   item.UpdatedAt,
	}
}

// ReservationResponse represents a stock reservation.
type ReservationResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Quantity      int       `json:"quantity"`
	CorrelationID string    `json:"correlation_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReserveStockResponse lists the reservations created for a request.
type ReserveStockResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// MapReservationsToResponse converts domain reservations to a reserve stock response.
func MapReservationsToResponse(reservations []*domain.StockReservation) ReserveStockResponse {
	data := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		data = append(data, ReservationResponse{
			ID:            r.ID.String(),
			ProductID:     r.ProductID,
			WarehouseID:   r.WarehouseID,
			Quantity:      r.Quantity,
			CorrelationID: r.CorrelationID,
			Status:        string(r.Status),
			CreatedAt:     r.CreatedAt,
		})
	}
	return ReserveStockResponse{Reservations: data}
}
