// Package domain defines the shopping cart.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// CartItem is a product in a cart with the price shown to the user.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Cart holds the items a user intends to buy. Items keep insertion order.
type Cart struct {
	UserID    string
	Items     []CartItem
	UpdatedAt time.Time
}

// NewCart returns an empty cart for userID.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID}
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItem adds item to the cart. Adding a product already in the cart increases its
// quantity and refreshes its name and price.
func (c *Cart) AddItem(item CartItem, now time.Time) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if item.UnitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}

	c.UpdatedAt = now
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.Items[i].ProductName = item.ProductName
			c.Items[i].UnitPrice = item.UnitPrice
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// RemoveItem removes a product from the cart.
func (c *Cart) RemoveItem(productID string, now time.Time) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = now
			return nil
		}
	}
	return ErrCartItemNotFound
}

// Total is the sum of unit price times quantity over all items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Domain-specific errors for cart operations.
var (
	// ErrCartItemNotFound indicates the product is not in the cart.
	ErrCartItemNotFound = errors.Wrap(errors.ErrNotFound, "cart item not found")

	// ErrInvalidQuantity indicates a quantity that is not positive.
	ErrInvalidQuantity = errors.Wrap(errors.ErrInvalidInput, "quantity must be greater than zero")

	// ErrInvalidUnitPrice indicates a negative unit price.
	ErrInvalidUnitPrice = errors.Wrap(errors.ErrInvalidInput, "unit price must not be negative")

	// ErrProductNotFound indicates the product is not stocked anywhere.
	ErrProductNotFound = errors.Wrap(errors.ErrNotFound, "product not found")
)
