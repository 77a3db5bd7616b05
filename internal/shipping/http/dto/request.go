// Package dto provides data transfer objects for the shipping HTTP API.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/wingedsheep/eco-logique/internal/shipping/domain"
	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// ShipRequest hands a paid order to a carrier.
type ShipRequest struct {
	OrderID        string `json:"order_id"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// Validate checks if the ship request is valid.
func (r *ShipRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrderID, validation.Required, validation.By(func(value interface{}) error {
			if _, err := uuid.Parse(value.(string)); err != nil {
				return validation.NewError("validation_uuid", "must be a valid UUID")
			}
			return nil
		})),
		validation.Field(&r.Carrier, validation.Required, customValidation.NotBlank, validation.Length(1, 64)),
		validation.Field(&r.TrackingNumber, validation.Required, customValidation.NotBlank, validation.Length(1, 128)),
	)
}

// ShipmentResponse represents a shipment in API responses.
type ShipmentResponse struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"tracking_number"`
	Status         string     `json:"status"`
	ShippedAt      time.Time  `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

// MapShipmentToResponse converts a domain shipment to its API representation.
func MapShipmentToResponse(shipment *domain.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             shipment.ID.String(),
		OrderID:        shipment.OrderID.String(),
		Carrier:        shipment.Carrier,
		TrackingNumber: shipment.TrackingNumber,
		Status:         string(shipment.Status),
		ShippedAt:      shipment.ShippedAt,
		DeliveredAt:    shipment.DeliveredAt,
	}
}
