// Package repository implements order persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/orders/domain"
)

// PostgreSQLOrderRepository persists orders and their lines in PostgreSQL.
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQLOrderRepository.
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{db: db}
}

const pgSelectOrders = `SELECT id, owner_id, status, subtotal, grand_total, currency, payment_id, created_at, updated_at
			  FROM orders`

// Create inserts the order header and its lines.
func (r *PostgreSQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (id, owner_id, status, subtotal, grand_total, currency, payment_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(ctx, query, order.ID, order.OwnerID, order.Status, order.Totals.Subtotal,
		order.Totals.GrandTotal, order.Totals.Currency, order.PaymentID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}

	lineQuery := `INSERT INTO order_lines (order_id, line_no, product_id, product_name, unit_price, quantity, line_total)
				  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, line := range order.Lines {
		_, err := querier.ExecContext(ctx, lineQuery, order.ID, i+1, line.ProductID, line.ProductName,
			line.UnitPriceSnapshot, line.Quantity, line.LineTotal)
		if err != nil {
			return apperrors.Wrap(err, "failed to create order line")
		}
	}
	return nil
}

// GetByID returns the order with its lines.
func (r *PostgreSQLOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, pgSelectOrders+` WHERE id = $1`, id)
}

// GetByIDForUpdate returns the order with its header row locked.
func (r *PostgreSQLOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, pgSelectOrders+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgreSQLOrderRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	order, err := scanPostgreSQLOrder(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get order")
	}

	if err := r.loadLines(ctx, querier, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByOwner returns the owner's orders newest first.
func (r *PostgreSQLOrderRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	offset, limit int,
) ([]*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	query := pgSelectOrders + ` WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanPostgreSQLOrder(rows)
		if err != nil {
			_ = rows.Close()
			return nil, apperrors.Wrap(err, "failed to scan order")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, apperrors.Wrap(err, "failed to iterate orders")
	}
	_ = rows.Close()

	for _, order := range orders {
		if err := r.loadLines(ctx, querier, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Update persists status, payment id and updated_at.
func (r *PostgreSQLOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET status = $1, payment_id = $2, updated_at = $3 WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, order.Status, order.PaymentID, order.UpdatedAt, order.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update order")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *PostgreSQLOrderRepository) loadLines(ctx context.Context, querier database.Querier, order *domain.Order) error {
	query := `SELECT product_id, product_name, unit_price, quantity, line_total
			  FROM order_lines WHERE order_id = $1 ORDER BY line_no ASC`

	rows, err := querier.QueryContext(ctx, query, order.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load order lines")
	}
	defer rows.Close() //nolint:errcheck

	order.Lines = nil
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.UnitPriceSnapshot,
			&line.Quantity, &line.LineTotal); err != nil {
			return apperrors.Wrap(err, "failed to scan order line")
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(err, "failed to iterate order lines")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var status string
	var paymentID sql.NullString

	if err := row.Scan(&order.ID, &order.OwnerID, &status, &order.Totals.Subtotal, &order.Totals.GrandTotal,
		&order.Totals.Currency, &paymentID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	order.Status = parsed
	if paymentID.Valid {
		order.PaymentID = &paymentID.String
	}
	return &order, nil
}
