package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wingedsheep/eco-logique/internal/checkout/domain"
	"github.com/wingedsheep/eco-logique/internal/checkout/http/dto"
	"github.com/wingedsheep/eco-logique/internal/httputil"
	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
	paymentDomain "github.com/wingedsheep/eco-logique/internal/payment/domain"
)

type mockCheckoutUseCase struct {
	mock.Mock
}

func (m *mockCheckoutUseCase) Checkout(ctx context.Context, userID, paymentMethod string) (*domain.Result, error) {
	args := m.Called(ctx, userID, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Result), args.Error(1)
}

func (m *mockCheckoutUseCase) RetryPayment(
	ctx context.Context,
	orderID uuid.UUID,
	userID, paymentMethod string,
) (*domain.Result, error) {
	args := m.Called(ctx, orderID, userID, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Result), args.Error(1)
}

func (m *mockCheckoutUseCase) CancelOrder(
	ctx context.Context,
	orderID uuid.UUID,
	userID string,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func setupTestHandler(t *testing.T) (*CheckoutHandler, *mockCheckoutUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	useCase := &mockCheckoutUseCase{}
	t.Cleanup(func() { useCase.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCheckoutHandler(useCase, logger), useCase
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestCheckoutHandler_CheckoutHandler(t *testing.T) {
	request := dto.CheckoutRequest{UserID: "user-1", PaymentMethod: "tok_visa"}

	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		result := &domain.Result{
			OrderID:       uuid.Must(uuid.NewV7()),
			OrderStatus:   ordersDomain.OrderStatusPaid,
			PaymentID:     uuid.Must(uuid.NewV7()),
			PaymentStatus: paymentDomain.PaymentStatusCompleted,
		}
		useCase.On("Checkout", mock.Anything, "user-1", "tok_visa").Return(result, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/checkout", request)

		handler.CheckoutHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.CheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, result.OrderID.String(), response.OrderID)
		assert.Equal(t, "PAID", response.OrderStatus)
		assert.Equal(t, "COMPLETED", response.PaymentStatus)
	})

	t.Run("Error_EmptyCart", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		useCase.On("Checkout", mock.Anything, "user-1", "tok_visa").Return(nil, domain.ErrEmptyCart).Once()

		c, w := createTestContext(http.MethodPost, "/v1/checkout", request)

		handler.CheckoutHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", decodeError(t, w).Error)
	})

	t.Run("Error_InsufficientStock", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		useCase.On("Checkout", mock.Anything, "user-1", "tok_visa").
			Return(nil, &inventoryDomain.InsufficientStockError{ProductID: "mug", Requested: 3, Available: 1}).Once()

		c, w := createTestContext(http.MethodPost, "/v1/checkout", request)

		handler.CheckoutHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "mug", response.Details["product_id"])
		assert.EqualValues(t, 3, response.Details["requested"])
		assert.EqualValues(t, 1, response.Details["available"])
	})

	t.Run("Error_PaymentFailed", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		orderID := uuid.Must(uuid.NewV7())
		useCase.On("Checkout", mock.Anything, "user-1", "tok_visa").
			Return(nil, &domain.PaymentFailedError{OrderID: orderID, Reason: "card declined"}).Once()

		c, w := createTestContext(http.MethodPost, "/v1/checkout", request)

		handler.CheckoutHandler(c)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "payment_failed", response.Error)
		assert.Equal(t, orderID.String(), response.Details["order_id"])
		assert.Equal(t, "card declined", response.Details["reason"])
	})

	t.Run("Error_MissingPaymentMethod", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/checkout", dto.CheckoutRequest{UserID: "user-1"})

		handler.CheckoutHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})
}

func TestCheckoutHandler_RetryPaymentHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		orderID := uuid.Must(uuid.NewV7())
		useCase.On("RetryPayment", mock.Anything, orderID, "user-1", "tok_visa").Return(&domain.Result{
			OrderID:       orderID,
			OrderStatus:   ordersDomain.OrderStatusPaid,
			PaymentID:     uuid.Must(uuid.NewV7()),
			PaymentStatus: paymentDomain.PaymentStatusCompleted,
		}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders/"+orderID.String()+"/payment",
			dto.RetryPaymentRequest{UserID: "user-1", PaymentMethod: "tok_visa"})
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}

		handler.RetryPaymentHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NotAwaitingPayment", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		orderID := uuid.Must(uuid.NewV7())
		useCase.On("RetryPayment", mock.Anything, orderID, "user-1", "tok_visa").
			Return(nil, domain.ErrOrderNotAwaitingPayment).Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders/"+orderID.String()+"/payment",
			dto.RetryPaymentRequest{UserID: "user-1", PaymentMethod: "tok_visa"})
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}

		handler.RetryPaymentHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_InvalidOrderID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/orders/nope/payment",
			dto.RetryPaymentRequest{UserID: "user-1", PaymentMethod: "tok_visa"})
		c.Params = gin.Params{{Key: "id", Value: "nope"}}

		handler.RetryPaymentHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutHandler_CancelOrderHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		line, err := ordersDomain.NewOrderLine("tshirt", "T-Shirt", decimal.RequireFromString("19.99"), 2)
		require.NoError(t, err)
		order, err := ordersDomain.NewOrder("user-1", []ordersDomain.OrderLine{line}, "EUR", time.Now().UTC())
		require.NoError(t, err)
		order.Status = ordersDomain.OrderStatusCancelled
		useCase.On("CancelOrder", mock.Anything, order.ID, "user-1").Return(order, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders/"+order.ID.String()+"/cancel",
			dto.CancelOrderRequest{UserID: "user-1"})
		c.Params = gin.Params{{Key: "id", Value: order.ID.String()}}

		handler.CancelOrderHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"CANCELLED"`)
	})

	t.Run("Error_NotOwner", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)
		orderID := uuid.Must(uuid.NewV7())
		useCase.On("CancelOrder", mock.Anything, orderID, "user-2").Return(nil, ordersDomain.ErrOrderNotOwned).Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders/"+orderID.String()+"/cancel",
			dto.CancelOrderRequest{UserID: "user-2"})
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}

		handler.CancelOrderHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
