package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
)

// MySQLInventoryItemRepository persists per-warehouse stock in MySQL.
type MySQLInventoryItemRepository struct {
	db *sql.DB
}

// NewMySQLInventoryItemRepository creates a new MySQLInventoryItemRepository.
func NewMySQLInventoryItemRepository(db *sql.DB) *MySQLInventoryItemRepository {
	return &MySQLInventoryItemRepository{db: db}
}

const mysqlSelectItems = `SELECT product_id, warehouse_id, quantity_on_hand, quantity_reserved, updated_at
			  FROM inventory_items`

// ListByProduct returns the product's items ordered by warehouse id.
func (r *MySQLInventoryItemRepository) ListByProduct(
	ctx context.Context,
	productID string,
) ([]*domain.InventoryItem, error) {
	return r.list(ctx, mysqlSelectItems+` WHERE product_id = ? ORDER BY warehouse_id ASC`, productID)
}

// ListByProductForUpdate locks the product's items in warehouse order.
func (r *MySQLInventoryItemRepository) ListByProductForUpdate(
	ctx context.Context,
	productID string,
) ([]*domain.InventoryItem, error) {
	return r.list(ctx, mysqlSelectItems+` WHERE product_id = ? ORDER BY warehouse_id ASC FOR UPDATE`, productID)
}

func (r *MySQLInventoryItemRepository) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.InventoryItem, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list inventory items")
	}
	defer rows.Close() //nolint:errcheck

	var items []*domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ProductID, &item.WarehouseID, &item.QuantityOnHand,
			&item.QuantityReserved, &item.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan inventory item")
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate inventory items")
	}
	return items, nil
}

// GetForUpdate locks and returns one item, or nil when it does not exist.
func (r *MySQLInventoryItemRepository) GetForUpdate(
	ctx context.Context,
	productID, warehouseID string,
) (*domain.InventoryItem, error) {
	querier := database.GetTx(ctx, r.db)

	var item domain.InventoryItem
	err := querier.QueryRowContext(ctx,
		mysqlSelectItems+` WHERE product_id = ? AND warehouse_id = ? FOR UPDATE`,
		productID, warehouseID,
	).Scan(&item.ProductID, &item.WarehouseID, &item.QuantityOnHand, &item.QuantityReserved, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to get inventory item")
	}
	return &item, nil
}

// Save inserts the item or updates its quantities.
func (r *MySQLInventoryItemRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO inventory_items (product_id, warehouse_id, quantity_on_hand, quantity_reserved, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			      quantity_on_hand = VALUES(quantity_on_hand),
			      quantity_reserved = VALUES(quantity_reserved),
			      updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query, item.ProductID, item.WarehouseID, item.QuantityOnHand,
		item.QuantityReserved, item.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to save inventory item")
	}
	return nil
}

// ProductExists reports whether any warehouse holds the product.
func (r *MySQLInventoryItemRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	err := querier.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_items WHERE product_id = ?)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check product existence")
	}
	return exists, nil
}
