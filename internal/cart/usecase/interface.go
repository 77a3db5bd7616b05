// Package usecase implements cart operations.
package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wingedsheep/eco-logique/internal/cart/domain"
)

// CartRepository stores carts by user id.
type CartRepository interface {
	// Get returns the user's cart, or an empty cart when none is stored.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save replaces the stored cart.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the user's cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, userID string) error
}

// ProductChecker reports whether a product exists.
type ProductChecker interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
}

// AddItemInput adds a product to a user's cart.
type AddItemInput struct {
	UserID      string          `json:"user_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// UseCase defines the cart operations.
type UseCase interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)

	// AddItem validates the item, checks that the product exists and adds it.
	AddItem(ctx context.Context, input AddItemInput) (*domain.Cart, error)

	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)

	ClearCart(ctx context.Context, userID string) error
}
