// Package http provides HTTP handlers for reading orders.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/httputil"
	"github.com/wingedsheep/eco-logique/internal/orders/http/dto"
	ordersUseCase "github.com/wingedsheep/eco-logique/internal/orders/usecase"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderUseCase ordersUseCase.UseCase
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderUseCase ordersUseCase.UseCase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

// GetHandler returns an order by id.
// GET /v1/orders/:id
func (h *OrderHandler) GetHandler(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid order id format: must be a valid UUID"), h.logger)
		return
	}

	order, err := h.orderUseCase.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// ListByOwnerHandler returns a user's orders, newest first.
// GET /v1/users/:user_id/orders?offset=0&limit=20
func (h *OrderHandler) ListByOwnerHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	orders, err := h.orderUseCase.ListOrdersByOwner(c.Request.Context(), c.Param("user_id"), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrdersToListResponse(orders, page))
}
