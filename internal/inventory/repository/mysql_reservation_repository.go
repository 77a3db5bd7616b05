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

// MySQLReservationRepository persists stock reservations in MySQL. Ids are BINARY(16).
type MySQLReservationRepository struct {
	db *sql.DB
}

// NewMySQLReservationRepository creates a new MySQLReservationRepository.
func NewMySQLReservationRepository(db *sql.DB) *MySQLReservationRepository {
	return &MySQLReservationRepository{db: db}
}

// Create inserts a reservation.
func (r *MySQLReservationRepository) Create(ctx context.Context, reservation *domain.StockReservation) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := reservation.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal reservation id")
	}

	query := `INSERT INTO stock_reservations (id, product_id, warehouse_id, quantity, correlation_id, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idBytes, reservation.ProductID, reservation.WarehouseID,
		reservation.Quantity, reservation.CorrelationID, reservation.Status, reservation.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create stock reservation")
	}
	return nil
}

// GetForUpdate locks and returns a reservation.
func (r *MySQLReservationRepository) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.StockReservation, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal reservation id")
	}

	query := `SELECT id, product_id, warehouse_id, quantity, correlation_id, status, created_at
			  FROM stock_reservations WHERE id = ? FOR UPDATE`

	reservation, err := scanReservation(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get stock reservation")
	}
	return reservation, nil
}

// UpdateStatus persists the reservation status.
func (r *MySQLReservationRepository) UpdateStatus(ctx context.Context, reservation *domain.StockReservation) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := reservation.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal reservation id")
	}

	_, err = querier.ExecContext(ctx, `UPDATE stock_reservations SET status = ? WHERE id = ?`,
		reservation.Status, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update stock reservation")
	}
	return nil
}

// ListActiveByCorrelation returns the active reservations of correlationID in creation order.
func (r *MySQLReservationRepository) ListActiveByCorrelation(
	ctx context.Context,
	correlationID string,
) ([]*domain.StockReservation, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, product_id, warehouse_id, quantity, correlation_id, status, created_at
			  FROM stock_reservations
			  WHERE correlation_id = ? AND status = ?
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, correlationID, domain.ReservationStatusActive)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list stock reservations")
	}
	defer rows.Close() //nolint:errcheck

	var reservations []*domain.StockReservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan stock reservation")
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate stock reservations")
	}
	return reservations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.StockReservation, error) {
	var reservation domain.StockReservation
	var idBytes []byte

	if err := row.Scan(&idBytes, &reservation.ProductID, &reservation.WarehouseID, &reservation.Quantity,
		&reservation.CorrelationID, &reservation.Status, &reservation.CreatedAt); err != nil {
		return nil, err
	}
	if err := reservation.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	return &reservation, nil
}
