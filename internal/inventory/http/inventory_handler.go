// Package http provides HTTP handlers for the inventory ledger.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/httputil"
	"github.com/wingedsheep/eco-logique/internal/inventory/http/dto"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// InventoryHandler handles HTTP requests for stock levels and reservations.
type InventoryHandler struct {
	inventoryUseCase inventoryUseCase.UseCase
	logger           *slog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(useCase inventoryUseCase.UseCase, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryUseCase: useCase,
		logger:           logger,
	}
}

// GetStockHandler returns the stock level of a product.
// GET /v1/inventory/:product_id
func (h *InventoryHandler) GetStockHandler(c *gin.Context) {
	level, err := h.inventoryUseCase.CheckStock(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStockLevelToResponse(level))
}

// SetStockHandler sets the on-hand quantity of a product in a warehouse.
// PUT /v1/inventory/:product_id/warehouses/:warehouse_id
func (h *InventoryHandler) SetStockHandler(c *gin.Context) {
	var req dto.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, err := h.inventoryUseCase.SetStock(c.Request.Context(), inventoryUseCase.SetStockInput{
		ProductID:   c.Param("product_id"),
		WarehouseID: c.Param("warehouse_id"),
		OnHand:      *req.OnHand,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapInventoryItemToResponse(item))
}

// ReserveStockHandler reserves stock for a correlation id.
// POST /v1/inventory/reservations
func (h *InventoryHandler) ReserveStockHandler(c *gin.Context) {
	var req dto.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	reservations, err := h.inventoryUseCase.ReserveStock(c.Request.Context(), inventoryUseCase.ReserveStockInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		CorrelationID: req.CorrelationID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapReservationsToResponse(reservations))
}

// ReleaseReservationHandler releases a reservation.
// DELETE /v1/inventory/reservations/:id
func (h *InventoryHandler) ReleaseReservationHandler(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid reservation id format: must be a valid UUID"), h.logger)
		return
	}

	if err := h.inventoryUseCase.ReleaseReservation(c.Request.Context(), reservationID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
