// Package http provides HTTP handlers for shipments.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/httputil"
	"github.com/wingedsheep/eco-logique/internal/shipping/http/dto"
	shippingUseCase "github.com/wingedsheep/eco-logique/internal/shipping/usecase"
	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// ShippingHandler handles HTTP requests for shipments.
type ShippingHandler struct {
	shippingUseCase shippingUseCase.UseCase
	logger          *slog.Logger
}

// NewShippingHandler creates a new shipping handler.
func NewShippingHandler(useCase shippingUseCase.UseCase, logger *slog.Logger) *ShippingHandler {
	return &ShippingHandler{
		shippingUseCase: useCase,
		logger:          logger,
	}
}

// ShipHandler ships a paid order.
// POST /v1/shipments
func (h *ShippingHandler) ShipHandler(c *gin.Context) {
	var req dto.ShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	shipment, err := h.shippingUseCase.Ship(c.Request.Context(), shippingUseCase.ShipInput{
		OrderID:        uuid.MustParse(req.OrderID),
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapShipmentToResponse(shipment))
}

// GetHandler returns a shipment.
// GET /v1/shipments/:id
func (h *ShippingHandler) GetHandler(c *gin.Context) {
	shipmentID, ok := h.parseShipmentID(c)
	if !ok {
		return
	}

	shipment, err := h.shippingUseCase.GetShipment(c.Request.Context(), shipmentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapShipmentToResponse(shipment))
}

// DeliverHandler confirms delivery of a shipment.
// POST /v1/shipments/:id/deliver
func (h *ShippingHandler) DeliverHandler(c *gin.Context) {
	shipmentID, ok := h.parseShipmentID(c)
	if !ok {
		return
	}

	shipment, err := h.shippingUseCase.MarkDelivered(c.Request.Context(), shipmentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapShipmentToResponse(shipment))
}

func (h *ShippingHandler) parseShipmentID(c *gin.Context) (uuid.UUID, bool) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid shipment id format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return shipmentID, true
}
