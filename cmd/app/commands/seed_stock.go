package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
)

// stockSetter is the slice of the inventory use case seeding needs.
type stockSetter interface {
	SetStock(ctx context.Context, input inventoryUseCase.SetStockInput) (*inventoryDomain.InventoryItem, error)
}

// RunSeedStock sets on-hand stock from "product:warehouse:quantity" entries. All
// entries are validated before anything is written.
func RunSeedStock(
	ctx context.Context,
	setter stockSetter,
	logger *slog.Logger,
	writer io.Writer,
	entries []string,
	format string,
) error {
	if len(entries) == 0 {
		return fmt.Errorf("at least one stock entry is required")
	}

	inputs := make([]inventoryUseCase.SetStockInput, 0, len(entries))
	for _, entry := range entries {
		input, err := parseStockEntry(entry)
		if err != nil {
			return err
		}
		inputs = append(inputs, input)
	}

	items := make([]*inventoryDomain.InventoryItem, 0, len(inputs))
	for _, input := range inputs {
		item, err := setter.SetStock(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to set stock for %s in %s: %w", input.ProductID, input.WarehouseID, err)
		}
		logger.Info("stock set",
			slog.String("product_id", item.ProductID),
			slog.String("warehouse_id", item.WarehouseID),
			slog.Int("on_hand", item.QuantityOnHand),
		)
		items = append(items, item)
	}

	if format == "json" {
		rows := make([]map[string]any, 0, len(items))
		for _, item := range items {
			rows = append(rows, map[string]any{
				"product_id":        item.ProductID,
				"warehouse_id":      item.WarehouseID,
				"quantity_on_hand":  item.QuantityOnHand,
				"quantity_reserved": item.QuantityReserved,
			})
		}
		return writeJSON(writer, rows)
	}

	for _, item := range items {
		_, _ = fmt.Fprintf(writer, "%s @ %s: %d on hand, %d reserved\n",
			item.ProductID, item.WarehouseID, item.QuantityOnHand, item.QuantityReserved)
	}
	return nil
}

func parseStockEntry(entry string) (inventoryUseCase.SetStockInput, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return inventoryUseCase.SetStockInput{}, fmt.Errorf(
			"invalid stock entry %q (expected product:warehouse:quantity)", entry,
		)
	}

	quantity, err := strconv.Atoi(parts[2])
	if err != nil || quantity < 0 {
		return inventoryUseCase.SetStockInput{}, fmt.Errorf(
			"invalid quantity in stock entry %q: must be a non-negative integer", entry,
		)
	}

	return inventoryUseCase.SetStockInput{
		ProductID:   parts[0],
		WarehouseID: parts[1],
		OnHand:      quantity,
	}, nil
}
