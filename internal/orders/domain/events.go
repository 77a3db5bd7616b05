package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type tags published by the orders module.
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

const aggregateType = "order"

// OrderCreated is published when an order is persisted.
type OrderCreated struct {
	OrderID    uuid.UUID       `json:"order_id"`
	OwnerID    string          `json:"owner_id"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Currency   string          `json:"currency"`
	LineCount  int             `json:"line_count"`
}

func (OrderCreated) EventType() string     { return EventTypeOrderCreated }
func (OrderCreated) AggregateType() string { return aggregateType }
func (e OrderCreated) AggregateID() string { return e.OrderID.String() }

// OrderStatusChanged is published on every committed status transition.
type OrderStatusChanged struct {
	OrderID    uuid.UUID   `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
}

func (OrderStatusChanged) EventType() string     { return EventTypeOrderStatusChanged }
func (OrderStatusChanged) AggregateType() string { return aggregateType }
func (e OrderStatusChanged) AggregateID() string { return e.OrderID.String() }
