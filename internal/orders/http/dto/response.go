// Package dto provides data transfer objects for the orders HTTP API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wingedsheep/eco-logique/internal/httputil"
	"github.com/wingedsheep/eco-logique/internal/orders/domain"
)

// OrderLineResponse is one line of an order.
type OrderLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID         string              `json:"id"`
	OwnerID    string              `json:"owner_id"`
	Status     string              `json:"status"`
	Lines      []OrderLineResponse `json:"lines"`
	Subtotal   decimal.Decimal     `json:"subtotal"`
	GrandTotal decimal.Decimal     `json:"grand_total"`
	Currency   string              `json:"currency"`
	PaymentID  *string             `json:"payment_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// MapOrderToResponse converts a domain order to its API representation.
func MapOrderToResponse(order *domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPriceSnapshot,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		})
	}

	return OrderResponse{
		ID:         order.ID.String(),
		OwnerID:    order.OwnerID,
		Status:     string(order.Status),
		Lines:      lines,
		Subtotal:   order.Totals.Subtotal,
		GrandTotal: order.Totals.GrandTotal,
		Currency:   order.Totals.Currency,
		PaymentID:  order.PaymentID,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

// ListOrdersResponse represents a page of orders.
type ListOrdersResponse struct {
	Data []OrderResponse `json:"data"`
	Page httputil.Page   `json:"page"`
}

// MapOrdersToListResponse converts a page of domain orders to a list response.
func MapOrdersToListResponse(orders []*domain.Order, page httputil.Page) ListOrdersResponse {
	data := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, MapOrderToResponse(order))
	}
	return ListOrdersResponse{Data: data, Page: page}
}
