// Package http provides HTTP handlers for checkout and order payment.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/checkout/http/dto"
	checkoutUseCase "github.com/wingedsheep/eco-logique/internal/checkout/usecase"
	"github.com/wingedsheep/eco-logique/internal/httputil"
	ordersDTO "github.com/wingedsheep/eco-logique/internal/orders/http/dto"
	customValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// CheckoutHandler handles HTTP requests for checkout, payment retries and cancellation.
type CheckoutHandler struct {
	checkoutUseCase checkoutUseCase.UseCase
	logger          *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(useCase checkoutUseCase.UseCase, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: useCase,
		logger:          logger,
	}
}

// CheckoutHandler places and pays an order for the user's cart.
// POST /v1/checkout
func (h *CheckoutHandler) CheckoutHandler(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.checkoutUseCase.Checkout(c.Request.Context(), req.UserID, req.PaymentMethod)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapResultToResponse(result))
}

// RetryPaymentHandler pays an order left in PAYMENT_PENDING.
// POST /v1/orders/:id/payment
func (h *CheckoutHandler) RetryPaymentHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req dto.RetryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.checkoutUseCase.RetryPayment(c.Request.Context(), orderID, req.UserID, req.PaymentMethod)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToResponse(result))
}

// CancelOrderHandler cancels an order and releases its stock.
// POST /v1/orders/:id/cancel
func (h *CheckoutHandler) CancelOrderHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	order, err := h.checkoutUseCase.CancelOrder(c.Request.Context(), orderID, req.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, ordersDTO.MapOrderToResponse(order))
}

func (h *CheckoutHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid order id format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return orderID, true
}
