// Package http provides HTTP handlers for shopping carts.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wingedsheep/eco-logique/internal/cart/http/dto"
	cartUseCase "github.com/wingedsheep/eco-logique/internal/cart/usecase"
	"github.com/wingedsheep/eco-logique/internal/httputil"
	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// CartHandler handles HTTP requests for carts.
type CartHandler struct {
	cartUseCase cartUseCase.UseCase
	logger      *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(useCase cartUseCase.UseCase, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		cartUseCase: useCase,
		logger:      logger,
	}
}

// GetHandler returns a user's cart.
// GET /v1/carts/:user_id
func (h *CartHandler) GetHandler(c *gin.Context) {
	cart, err := h.cartUseCase.GetCart(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCartToResponse(cart))
}

// AddItemHandler adds a product to a user's cart.
// POST /v1/carts/:user_id/items
func (h *CartHandler) AddItemHandler(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	cart, err := h.cartUseCase.AddItem(c.Request.Context(), cartUseCase.AddItemInput{
		UserID:      c.Param("user_id"),
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCartToResponse(cart))
}

// RemoveItemHandler removes a product from a user's cart.
// DELETE /v1/carts/:user_id/items/:product_id
func (h *CartHandler) RemoveItemHandler(c *gin.Context) {
	cart, err := h.cartUseCase.RemoveItem(c.Request.Context(), c.Param("user_id"), c.Param("product_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCartToResponse(cart))
}

// ClearHandler empties a user's cart.
// DELETE /v1/carts/:user_id
func (h *CartHandler) ClearHandler(c *gin.Context) {
	if err := h.cartUseCase.ClearCart(c.Request.Context(), c.Param("user_id")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
