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

// MySQLOrderRepository persists orders and their lines in MySQL. Ids are BINARY(16).
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new MySQLOrderRepository.
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const mysqlSelectOrders = `SELECT id, owner_id, status, subtotal, grand_total, currency, payment_id, created_at, updated_at
			  FROM orders`

// Create inserts the order header and its lines.
func (r *MySQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := order.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `INSERT INTO orders (id, owner_id, status, subtotal, grand_total, currency, payment_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idBytes, order.OwnerID, order.Status, order.Totals.Subtotal,
		order.Totals.GrandTotal, order.Totals.Currency, order.PaymentID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}

	lineQuery := `INSERT INTO order_lines (order_id, line_no, product_id, product_name, unit_price, quantity, line_total)
				  VALUES (?, ?, ?, ?, ?, ?, ?)`

	for i, line := range order.Lines {
		_, err := querier.ExecContext(ctx, lineQuery, idBytes, i+1, line.ProductID, line.ProductName,
			line.UnitPriceSnapshot, line.Quantity, line.LineTotal)
		if err != nil {
			return apperrors.Wrap(err, "failed to create order line")
		}
	}
	return nil
}

// GetByID returns the order with its lines.
func (r *MySQLOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, mysqlSelectOrders+` WHERE id = ?`, id)
}

// GetByIDForUpdate returns the order with its header row locked.
func (r *MySQLOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, mysqlSelectOrders+` WHERE id = ? FOR UPDATE`, id)
}

func (r *MySQLOrderRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal order id")
	}

	order, err := scanMySQLOrder(querier.QueryRowContext(ctx, query, idBytes))
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
func (r *MySQLOrderRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	offset, limit int,
) ([]*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	query := mysqlSelectOrders + ` WHERE owner_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanMySQLOrder(rows)
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
func (r *MySQLOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := order.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `UPDATE orders SET status = ?, payment_id = ?, updated_at = ? WHERE id = ?`

	// MySQL reports zero affected rows when values are unchanged, so no not-found check here.
	if _, err := querier.ExecContext(ctx, query, order.Status, order.PaymentID, order.UpdatedAt, idBytes); err != nil {
		return apperrors.Wrap(err, "failed to update order")
	}
	return nil
}

func (r *MySQLOrderRepository) loadLines(ctx context.Context, querier database.Querier, order *domain.Order) error {
	idBytes, err := order.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `SELECT product_id, product_name, unit_price, quantity, line_total
			  FROM order_lines WHERE order_id = ? ORDER BY line_no ASC`

	rows, err := querier.QueryContext(ctx, query, idBytes)
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

func scanMySQLOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var idBytes []byte
	var status string
	var paymentID sql.NullString

	if err := row.Scan(&idBytes, &order.OwnerID, &status, &order.Totals.Subtotal, &order.Totals.GrandTotal,
		&order.Totals.Currency, &paymentID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	if err := order.ID.UnmarshalBinary(idBytes); err != nil {
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
