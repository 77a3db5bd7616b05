// Package dto provides data transfer objects for the cart HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// AddItemRequest adds a product to the cart in the URL.
type AddItemRequest struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Validate checks if the add item request is valid.
func (r *AddItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProductID, validation.Required, customValidation.Identifier),
		validation.Field(&r.ProductName, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.UnitPrice, customValidation.NonNegativeDecimal),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}
