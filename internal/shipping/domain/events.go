package domain

import "github.com/google/uuid"

// Event type tags published by the shipping module.
const (
	EventTypeShipped   = "shipping.shipped"
	EventTypeDelivered = "shipping.delivered"
)

const aggregateType = "shipment"

// OrderShipped is published when a shipment is handed to a carrier.
type OrderShipped struct {
	ShipmentID     uuid.UUID `json:"shipment_id"`
	OrderID        uuid.UUID `json:"order_id"`
	Carrier        string    `json:"carrier"`
	TrackingNumber string    `json:"tracking_number"`
}

func (OrderShipped) EventType() string     { return EventTypeShipped }
func (OrderShipped) AggregateType() string { return aggregateType }
func (e OrderShipped) AggregateID() string { return e.ShipmentID.String() }

// ShipmentDelivered is published when the carrier confirms delivery.
type ShipmentDelivered struct {
	ShipmentID uuid.UUID `json:"shipment_id"`
	OrderID    uuid.UUID `json:"order_id"`
}

func (ShipmentDelivered) EventType() string     { return EventTypeDelivered }
func (ShipmentDelivered) AggregateType() string { return aggregateType }
func (e ShipmentDelivered) AggregateID() string { return e.ShipmentID.String() }
