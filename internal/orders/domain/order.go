// Package domain defines the order aggregate and its lifecycle state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// OrderLine is a purchased product with its price frozen at order creation.
type OrderLine struct {
	ProductID         string
	ProductName       string
	UnitPriceSnapshot decimal.Decimal
	Quantity          int
	LineTotal         decimal.Decimal
}

// Totals holds the monetary summary of an order. GrandTotal equals Subtotal since
// taxes and shipping costs are not computed.
type Totals struct {
	Subtotal   decimal.Decimal
	GrandTotal decimal.Decimal
	Currency   string
}

// Order is the order aggregate.
type Order struct {
	ID        uuid.UUID
	OwnerID   string
	Status    OrderStatus
	Lines     []OrderLine
	Totals    Totals
	PaymentID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderLine builds a line and computes its total.
func NewOrderLine(productID, productName string, unitPrice decimal.Decimal, quantity int) (OrderLine, error) {
	if quantity <= 0 {
		return OrderLine{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return OrderLine{}, ErrInvalidUnitPrice
	}
	return OrderLine{
		ProductID:         productID,
		ProductName:       productName,
		UnitPriceSnapshot: unitPrice,
		Quantity:          quantity,
		LineTotal:         unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// NewOrder creates an order in CREATED status with computed totals.
func NewOrder(ownerID string, lines []OrderLine, currency string, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrOrderHasNoLines
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}

	return &Order{
		ID:      uuid.Must(uuid.NewV7()),
		OwnerID: ownerID,
		Status:  OrderStatusCreated,
		Lines:   lines,
		Totals: Totals{
			Subtotal:   subtotal,
			GrandTotal: subtotal,
			Currency:   currency,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TransitionTo moves the order to target, leaving it untouched when the move is illegal.
func (o *Order) TransitionTo(target OrderStatus, now time.Time) error {
	next, err := o.Status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

// CoveredBy reports whether reserved, the reserved quantity per product id, satisfies
// every line. Lines of the same product are summed.
func (o *Order) CoveredBy(reserved map[string]int) bool {
	wanted := make(map[string]int, len(o.Lines))
	for _, line := range o.Lines {
		wanted[line.ProductID] += line.Quantity
	}
	for productID, quantity := range wanted {
		if reserved[productID] < quantity {
			return false
		}
	}
	return true
}

// Domain-specific errors for order operations.
var (
	// ErrOrderNotFound indicates the requested order does not exist.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrOrderHasNoLines indicates an order was created without lines.
	ErrOrderHasNoLines = errors.Wrap(errors.ErrInvalidInput, "order must have at least one line")

	// ErrInvalidQuantity indicates a line quantity that is not positive.
	ErrInvalidQuantity = errors.Wrap(errors.ErrInvalidInput, "quantity must be greater than zero")

	// ErrInvalidUnitPrice indicates a negative unit price.
	ErrInvalidUnitPrice = errors.Wrap(errors.ErrInvalidInput, "unit price must not be negative")

	// ErrUnknownOrderStatus indicates a status value outside the lifecycle.
	ErrUnknownOrderStatus = errors.Wrap(errors.ErrInvalidInput, "unknown order status")

	// ErrOrderNotOwned indicates the order belongs to another user.
	ErrOrderNotOwned = errors.Wrap(errors.ErrForbidden, "order belongs to another user")

	// ErrReservationIncomplete is returned when active reservations do not cover every line.
	ErrReservationIncomplete = errors.Wrap(errors.ErrPreconditionFailed, "order lines are not fully reserved")
)
