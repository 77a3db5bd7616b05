package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wingedsheep/eco-logique/internal/cart/domain"
)

// CartItemResponse is one line of a cart.
type CartItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartResponse represents a cart in API responses.
type CartResponse struct {
	UserID    string             `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// MapCartToResponse converts a domain cart to its API representation.
func MapCartToResponse(cart *domain.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	response := CartResponse{
		UserID: cart.UserID,
		Items:  items,
		Total:  cart.Total(),
	}
	if !cart.UpdatedAt.IsZero() {
		updatedAt := cart.UpdatedAt
		response.UpdatedAt = &updatedAt
	}
	return response
}
