// Package domain defines shipments of paid orders.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// ShipmentStatus is the delivery state of a shipment.
type ShipmentStatus string

const (
	ShipmentStatusShipped   ShipmentStatus = "SHIPPED"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

// Shipment is a parcel handed to a carrier for one order.
type Shipment struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	Carrier        string
	TrackingNumber string
	Status         ShipmentStatus
	ShippedAt      time.Time
	DeliveredAt    *time.Time
}

// MarkDelivered records delivery. A shipment is delivered at most once.
func (s *Shipment) MarkDelivered(now time.Time) error {
	if s.Status == ShipmentStatusDelivered {
		return ErrAlreadyDelivered
	}
	s.Status = ShipmentStatusDelivered
	s.DeliveredAt = &now
	return nil
}

// Domain-specific errors for shipping operations.
var (
	// ErrShipmentNotFound indicates the shipment does not exist.
	ErrShipmentNotFound = errors.Wrap(errors.ErrNotFound, "shipment not found")

	// ErrOrderNotPaid indicates an attempt to ship an order that is not PAID.
	ErrOrderNotPaid = errors.Wrap(errors.ErrConflict, "order must be paid before shipping")

	// ErrAlreadyShipped indicates the order already has a shipment.
	ErrAlreadyShipped = errors.Wrap(errors.ErrConflict, "order already shipped")

	// ErrAlreadyDelivered indicates a second delivery confirmation.
	ErrAlreadyDelivered = errors.Wrap(errors.ErrConflict, "shipment already delivered")
)
