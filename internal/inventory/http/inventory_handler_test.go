package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
	"github.com/wingedsheep/eco-logique/internal/inventory/http/dto"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
)

func setupTestHandler(t *testing.T) (*InventoryHandler, *mockInventoryUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	useCase := &mockInventoryUseCase{}
	t.Cleanup(func() { useCase.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInventoryHandler(useCase, logger), useCase
}

func TestInventoryHandler_GetStockHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		level := domain.NewStockLevel("tshirt", []*domain.InventoryItem{
			{ProductID: "tshirt", WarehouseID: "wh-1", QuantityOnHand: 2},
			{ProductID: "tshirt", WarehouseID: "wh-2", QuantityOnHand: 5, QuantityReserved: 1},
		})
		useCase.On("CheckStock", mock.Anything, "tshirt").Return(&level, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/inventory/tshirt", nil)
		c.Params = gin.Params{{Key: "product_id", Value: "tshirt"}}

		handler.GetStockHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.StockLevelResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 6, response.TotalAvailable)
		assert.Len(t, response.PerWarehouse, 2)
	})

	t.Run("Error_ProductNotFound", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		useCase.On("CheckStock", mock.Anything, "ghost").Return(nil, domain.ErrProductNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/inventory/ghost", nil)
		c.Params = gin.Params{{Key: "product_id", Value: "ghost"}}

		handler.GetStockHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInventoryHandler_SetStockHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		input := inventoryUseCase.SetStockInput{ProductID: "mug", WarehouseID: "wh-1", OnHand: 12}
		useCase.On("SetStock", mock.Anything, input).
			Return(&domain.InventoryItem{ProductID: "mug", WarehouseID: "wh-1", QuantityOnHand: 12,
				QuantityReserved: 2, UpdatedAt: time.Now()}, nil).
			Once()

		c, w := createTestContext(http.MethodPut, "/v1/inventory/mug/warehouses/wh-1", map[string]int{"on_hand": 12})
		c.Params = gin.Params{{Key: "product_id", Value: "mug"}, {Key: "warehouse_id", Value: "wh-1"}}

		handler.SetStockHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.InventoryItemResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 10, response.Available)
	})

	t.Run("Error_NegativeOnHand", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPut, "/v1/inventory/mug/warehouses/wh-1", map[string]int{"on_hand": -1})
		c.Params = gin.Params{{Key: "product_id", Value: "mug"}, {Key: "warehouse_id", Value: "wh-1"}}

		handler.SetStockHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_BelowReserved", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		useCase.On("SetStock", mock.Anything, mock.Anything).Return(nil, domain.ErrOnHandBelowReserved).Once()

		c, w := createTestContext(http.MethodPut, "/v1/inventory/mug/warehouses/wh-1", map[string]int{"on_hand": 0})
		c.Params = gin.Params{{Key: "product_id", Value: "mug"}, {Key: "warehouse_id", Value: "wh-1"}}

		handler.SetStockHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestInventoryHandler_ReserveStockHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		reservationID := uuid.Must(uuid.NewV7())
		input := inventoryUseCase.ReserveStockInput{ProductID: "tshirt", Quantity: 3, CorrelationID: "order-1"}
		useCase.On("ReserveStock", mock.Anything, input).Return([]*domain.StockReservation{{
			ID: reservationID, ProductID: "tshirt", WarehouseID: "wh-1", Quantity: 3,
			CorrelationID: "order-1", Status: domain.ReservationStatusActive, CreatedAt: time.Now(),
		}}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/inventory/reservations", dto.ReserveStockRequest{
			ProductID: "tshirt", Quantity: 3, CorrelationID: "order-1",
		})

		handler.ReserveStockHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.ReserveStockResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Reservations, 1)
		assert.Equal(t, reservationID.String(), response.Reservations[0].ID)
		assert.Equal(t, "ACTIVE", response.Reservations[0].Status)
	})

	t.Run("Error_InsufficientStock", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		useCase.On("ReserveStock", mock.Anything, mock.Anything).
			Return(nil, &domain.InsufficientStockError{ProductID: "tshirt", Requested: 9, Available: 7}).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/inventory/reservations", dto.ReserveStockRequest{
			ProductID: "tshirt", Quantity: 9, CorrelationID: "order-1",
		})

		handler.ReserveStockHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		details := response["details"].(map[string]interface{})
		assert.EqualValues(t, 7, details["available"])
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/inventory/reservations", nil)

		handler.ReserveStockHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_ZeroQuantity", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/inventory/reservations", dto.ReserveStockRequest{
			ProductID: "tshirt", Quantity: 0, CorrelationID: "order-1",
		})

		handler.ReserveStockHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestInventoryHandler_ReleaseReservationHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		reservationID := uuid.Must(uuid.NewV7())
		useCase.On("ReleaseReservation", mock.Anything, reservationID).Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/inventory/reservations/"+reservationID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: reservationID.String()}}

		handler.ReleaseReservationHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_AlreadyReleased", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		reservationID := uuid.Must(uuid.NewV7())
		useCase.On("ReleaseReservation", mock.Anything, reservationID).Return(domain.ErrReservationNotFound).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/inventory/reservations/"+reservationID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: reservationID.String()}}

		handler.ReleaseReservationHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodDelete, "/v1/inventory/reservations/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}

		handler.ReleaseReservationHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
