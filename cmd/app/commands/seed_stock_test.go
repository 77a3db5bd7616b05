package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
)

func TestRunSeedStock(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		setter := &MockStockSetter{}
		setter.On("SetStock", ctx, inventoryUseCase.SetStockInput{
			ProductID: "tshirt", WarehouseID: "wh-1", OnHand: 25,
		}).Return(&inventoryDomain.InventoryItem{
			ProductID: "tshirt", WarehouseID: "wh-1", QuantityOnHand: 25, QuantityReserved: 2,
		}, nil)
		setter.On("SetStock", ctx, inventoryUseCase.SetStockInput{
			ProductID: "mug", WarehouseID: "wh-2", OnHand: 0,
		}).Return(&inventoryDomain.InventoryItem{
			ProductID: "mug", WarehouseID: "wh-2",
		}, nil)

		var out bytes.Buffer
		err := RunSeedStock(ctx, setter, logger, &out, []string{"tshirt:wh-1:25", "mug:wh-2:0"}, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "tshirt @ wh-1: 25 on hand, 2 reserved")
		assert.Contains(t, out.String(), "mug @ wh-2: 0 on hand, 0 reserved")
		setter.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		setter := &MockStockSetter{}
		setter.On("SetStock", ctx, mock.Anything).Return(&inventoryDomain.InventoryItem{
			ProductID: "tshirt", WarehouseID: "wh-1", QuantityOnHand: 10,
		}, nil)

		var out bytes.Buffer
		err := RunSeedStock(ctx, setter, logger, &out, []string{"tshirt:wh-1:10"}, "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"product_id": "tshirt"`)
		assert.Contains(t, out.String(), `"quantity_on_hand": 10`)
	})

	t.Run("invalid-entry-writes-nothing", func(t *testing.T) {
		setter := &MockStockSetter{}

		err := RunSeedStock(ctx, setter, logger, &bytes.Buffer{}, []string{"tshirt:wh-1:5", "mug:wh-2"}, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid stock entry")
		setter.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything)
	})

	t.Run("no-entries", func(t *testing.T) {
		err := RunSeedStock(ctx, &MockStockSetter{}, logger, &bytes.Buffer{}, nil, "text")
		require.Error(t, err)
	})

	t.Run("use-case-error", func(t *testing.T) {
		setter := &MockStockSetter{}
		setter.On("SetStock", ctx, mock.Anything).Return(nil, errors.New("constraint violated"))

		err := RunSeedStock(ctx, setter, logger, &bytes.Buffer{}, []string{"tshirt:wh-1:5"}, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to set stock for tshirt in wh-1")
	})
}

func TestParseStockEntry(t *testing.T) {
	tests := []struct {
		entry   string
		want    inventoryUseCase.SetStockInput
		wantErr bool
	}{
		{entry: "tshirt:wh-1:3", want: inventoryUseCase.SetStockInput{ProductID: "tshirt", WarehouseID: "wh-1", OnHand: 3}},
		{entry: "tshirt:wh-1:-1", wantErr: true},
		{entry: "tshirt:wh-1:many", wantErr: true},
		{entry: ":wh-1:3", wantErr: true},
		{entry: "tshirt::3", wantErr: true},
		{entry: "tshirt:wh-1:3:extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got, err := parseStockEntry(tt.entry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
