package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
)

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

type mockInventoryUseCase struct {
	mock.Mock
}

func (m *mockInventoryUseCase) CheckStock(ctx context.Context, productID string) (*domain.StockLevel, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockLevel), args.Error(1)
}

func (m *mockInventoryUseCase) ReserveStock(
	ctx context.Context,
	input inventoryUseCase.ReserveStockInput,
) ([]*domain.StockReservation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StockReservation), args.Error(1)
}

func (m *mockInventoryUseCase) ReleaseReservation(ctx context.Context, reservationID uuid.UUID) error {
	return m.Called(ctx, reservationID).Error(0)
}

func (m *mockInventoryUseCase) ListActiveReservations(
	ctx context.Context,
	correlationID string,
) ([]*domain.StockReservation, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StockReservation), args.Error(1)
}

func (m *mockInventoryUseCase) ReleaseByCorrelation(ctx context.Context, correlationID string) (int, error) {
	args := m.Called(ctx, correlationID)
	return args.Int(0), args.Error(1)
}

func (m *mockInventoryUseCase) SetStock(
	ctx context.Context,
	input inventoryUseCase.SetStockInput,
) (*domain.InventoryItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *mockInventoryUseCase) ProductExists(ctx context.Context, productID string) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}
