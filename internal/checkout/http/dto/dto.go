// Package dto provides data transfer objects for the checkout HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/wingedsheep/eco-logique/internal/checkout/domain"
	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// CheckoutRequest places an order for the user's cart.
type CheckoutRequest struct {
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
}

// Validate checks if the checkout request is valid.
func (r *CheckoutRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.Identifier),
		validation.Field(&r.PaymentMethod, validation.Required, customValidation.NotBlank,
			validation.Length(1, 128)),
	)
}

// RetryPaymentRequest pays an order left in PAYMENT_PENDING.
type RetryPaymentRequest struct {
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
}

// Validate checks if the retry payment request is valid.
func (r *RetryPaymentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.Identifier),
		validation.Field(&r.PaymentMethod, validation.Required, customValidation.NotBlank,
			validation.Length(1, 128)),
	)
}

// CancelOrderRequest cancels an order on behalf of its owner.
type CancelOrderRequest struct {
	UserID string `json:"user_id"`
}

// Validate checks if the cancel request is valid.
func (r *CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.Identifier),
	)
}

// CheckoutResponse is the outcome of a successful checkout.
type CheckoutResponse struct {
	OrderID       string `json:"order_id"`
	OrderStatus   string `json:"order_status"`
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
}

// MapResultToResponse converts a checkout result to its API representation.
func MapResultToResponse(result *domain.Result) CheckoutResponse {
	return CheckoutResponse{
		OrderID:       result.OrderID.String(),
		OrderStatus:   string(result.OrderStatus),
		PaymentID:     result.PaymentID.String(),
		PaymentStatus: string(result.PaymentStatus),
	}
}
