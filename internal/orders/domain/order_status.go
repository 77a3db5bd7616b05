package domain

import (
	"fmt"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

const (
	OrderStatusCreated        OrderStatus = "CREATED"
	OrderStatusReserved       OrderStatus = "RESERVED"
	OrderStatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:        {OrderStatusReserved, OrderStatusCancelled},
	OrderStatusReserved:       {OrderStatusPaymentPending, OrderStatusCancelled},
	OrderStatusPaymentPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:           {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusDelivered},
	OrderStatusCancelled:      nil,
	OrderStatusDelivered:      nil,
}

// AllOrderStatuses lists every status in lifecycle order.
var AllOrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusReserved,
	OrderStatusPaymentPending,
	OrderStatusPaid,
	OrderStatusCancelled,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// ParseOrderStatus converts a stored or user-supplied value into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(value)
	if _, ok := transitions[status]; !ok {
		return "", errors.Wrapf(ErrUnknownOrderStatus, "status %q", value)
	}
	return status, nil
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to target is legal. Self-transitions
// are never legal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the move is legal and an *InvalidTransitionError
// otherwise. It never consults anything but the two statuses.
func (s OrderStatus) TransitionTo(target OrderStatus) (OrderStatus, error) {
	if !s.CanTransitionTo(target) {
		return s, &InvalidTransitionError{From: s, To: target}
	}
	return target, nil
}

// InvalidTransitionError reports a rejected status change.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %s to %s", e.From, e.To)
}

// Unwrap lets callers match the error against errors.ErrConflict.
func (e *InvalidTransitionError) Unwrap() error {
	return errors.ErrConflict
}

// Details exposes both ends of the rejected transition to API clients.
func (e *InvalidTransitionError) Details() map[string]any {
	return map[string]any{
		"from": string(e.From),
		"to":   string(e.To),
	}
}
