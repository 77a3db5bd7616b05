package domain

import "github.com/google/uuid"

// Event type tags published by the inventory module.
const (
	EventTypeStockReserved       = "inventory.reserved"
	EventTypeReservationReleased = "inventory.reservation_released"
)

const aggregateType = "reservation"

// StockReserved is published for every reservation row created.
type StockReserved struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Quantity      int       `json:"quantity"`
	CorrelationID string    `json:"correlation_id"`
}

func (StockReserved) EventType() string     { return EventTypeStockReserved }
func (StockReserved) AggregateType() string { return aggregateType }
func (e StockReserved) AggregateID() string { return e.ReservationID.String() }

// ReservationReleased is published when a reservation is cancelled and its stock returned.
type ReservationReleased struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Quantity      int       `json:"quantity"`
	CorrelationID string    `json:"correlation_id"`
}

func (ReservationReleased) EventType() string     { return EventTypeReservationReleased }
func (ReservationReleased) AggregateType() string { return aggregateType }
func (e ReservationReleased) AggregateID() string { return e.ReservationID.String() }
