// Package repository provides PostgreSQL and MySQL persistence for the inventory ledger.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
)

// PostgreSQLInventoryItemRepository persists per-warehouse stock in PostgreSQL.
type PostgreSQLInventoryItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLInventoryItemRepository creates a new PostgreSQLInventoryItemRepository.
func NewPostgreSQLInventoryItemRepository(db *sql.DB) *PostgreSQLInventoryItemRepository {
	return &PostgreSQLInventoryItemRepository{db: db}
}

const pgSelectItems = `SELECT product_id, warehouse_id, quantity_on_hand, quantity_reserved, updated_at
			  FROM inventory_items`

// ListByProduct returns the product's items ordered by warehouse id.
func (r *PostgreSQLInventoryItemRepository) ListByProduct(
	ctx context.Context,
	productID string,
) ([]*domain.InventoryItem, error) {
	return r.list(ctx, pgSelectItems+` WHERE product_id = $1 ORDER BY warehouse_id ASC`, productID)
}

// ListByProductForUpdate locks the product's items in warehouse order, so concurrent
// reservations of the same product serialize without deadlocking.
func (r *PostgreSQLInventoryItemRepository) ListByProductForUpdate(
	ctx context.Context,
	productID string,
) ([]*domain.InventoryItem, error) {
	return r.list(ctx, pgSelectItems+` WHERE product_id = $1 ORDER BY warehouse_id ASC FOR UPDATE`, productID)
}

func (r *PostgreSQLInventoryItemRepository) list(
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
func (r *PostgreSQLInventoryItemRepository) GetForUpdate(
	ctx context.Context,
	productID, warehouseID string,
) (*domain.InventoryItem, error) {
	querier := database.GetTx(ctx, r.db)

	var item domain.InventoryItem
	err := querier.QueryRowContext(ctx,
		pgSelectItems+` WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
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
func (r *PostgreSQLInventoryItemRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO inventory_items (product_id, warehouse_id, quantity_on_hand, quantity_reserved, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (product_id, warehouse_id) DO UPDATE
			  SET quantity_on_hand = EXCLUDED.quantity_on_hand,
			      quantity_reserved = EXCLUDED.quantity_reserved,
			      updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query, item.ProductID, item.WarehouseID, item.QuantityOnHand,
		item.QuantityReserved, item.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to save inventory item")
	}
	return nil
}

// ProductExists reports whether any warehouse holds the product.
func (r *PostgreSQLInventoryItemRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	err := querier.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_items WHERE product_id = $1)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check product existence")
	}
	return exists, nil
}
