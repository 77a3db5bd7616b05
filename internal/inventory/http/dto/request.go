// Package dto provides data transfer objects for the inventory HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// SetStockRequest sets the on-hand quantity of a product in one warehouse.
// Product and warehouse come from the URL.
type SetStockRequest struct {
	OnHand *int `json:"on_hand"`
}

// Validate checks if the set stock request is valid.
func (r *SetStockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OnHand, validation.NotNil, validation.Min(0)),
	)
}

// ReserveStockRequest reserves a product quantity under a correlation id.
type ReserveStockRequest struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	CorrelationID string `json:"correlation_id"`
}

// Validate checks if the reserve stock request is valid.
func (r *ReserveStockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProductID, validation.Required, customValidation.Identifier),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.CorrelationID, validation.Required, customValidation.NotBlank,
			validation.Length(1, 128)),
	)
}
