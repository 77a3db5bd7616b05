package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
)

// PostgreSQLReservationRepository persists stock reservations in PostgreSQL.
type PostgreSQLReservationRepository struct {
	db *sql.DB
}

// NewPostgreSQLReservationRepository creates a new PostgreSQLReservationRepository.
func NewPostgreSQLReservationRepository(db *sql.DB) *PostgreSQLReservationRepository {
	return &PostgreSQLReservationRepository{db: db}
}

// Create inserts a reservation.
func (r *PostgreSQLReservationRepository) Create(ctx context.Context, reservation *domain.StockReservation) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO stock_reservations (id, product_id, warehouse_id, quantity, correlation_id, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query, reservation.ID, reservation.ProductID, reservation.WarehouseID,
		reservation.Quantity, reservation.CorrelationID, reservation.Status, reservation.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create stock reservation")
	}
	return nil
}

// GetForUpdate locks and returns a reservation.
func (r *PostgreSQLReservationRepository) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.StockReservation, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, product_id, warehouse_id, quantity, correlation_id, status, created_at
			  FROM stock_reservations WHERE id = $1 FOR UPDATE`

	var reservation domain.StockReservation
	err := querier.QueryRowContext(ctx, query, id).Scan(&reservation.ID, &reservation.ProductID,
		&reservation.WarehouseID, &reservation.Quantity, &reservation.CorrelationID,
		&reservation.Status, &reservation.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get stock reservation")
	}
	return &reservation, nil
}

// UpdateStatus persists the reservation status.
func (r *PostgreSQLReservationRepository) UpdateStatus(
	ctx context.Context,
	reservation *domain.StockReservation,
) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx, `UPDATE stock_reservations SET status = $1 WHERE id = $2`,
		reservation.Status, reservation.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update stock reservation")
	}
	return nil
}

// ListActiveByCorrelation returns the active reservations of correlationID in creation order.
func (r *PostgreSQLReservationRepository) ListActiveByCorrelation(
	ctx context.Context,
	correlationID string,
) ([]*domain.StockReservation, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, product_id, warehouse_id, quantity, correlation_id, status, created_at
			  FROM stock_reservations
			  WHERE correlation_id = $1 AND status = $2
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, correlationID, domain.ReservationStatusActive)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list stock reservations")
	}
	defer rows.Close() //nolint:errcheck

	var reservations []*domain.StockReservation
	for rows.Next() {
		var reservation domain.StockReservation
		if err := rows.Scan(&reservation.ID, &reservation.ProductID, &reservation.WarehouseID,
			&reservation.Quantity, &reservation.CorrelationID, &reservation.Status,
			&reservation.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan stock reservation")
		}
		reservations = append(reservations, &reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate stock reservations")
	}
	return reservations, nil
}
