// Package repository implements shipment persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/shipping/domain"
)

const shipmentColumns = `id, order_id, carrier, tracking_number, status, shipped_at, delivered_at`

// PostgreSQLShipmentRepository persists shipments in PostgreSQL.
type PostgreSQLShipmentRepository struct {
	db *sql.DB
}

// NewPostgreSQLShipmentRepository creates a new PostgreSQLShipmentRepository.
func NewPostgreSQLShipmentRepository(db *sql.DB) *PostgreSQLShipmentRepository {
	return &PostgreSQLShipmentRepository{db: db}
}

// Create inserts a shipment.
func (r *PostgreSQLShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO shipments (` + shipmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query, shipment.ID, shipment.OrderID, shipment.Carrier,
		shipment.TrackingNumber, shipment.Status, shipment.ShippedAt, shipment.DeliveredAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create shipment")
	}
	return nil
}

// GetByID returns a shipment.
func (r *PostgreSQLShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
}

// GetByIDForUpdate returns a shipment and locks its row.
func (r *PostgreSQLShipmentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id)
}

// GetByOrder returns the shipment of an order, or nil.
func (r *PostgreSQLShipmentRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error) {
	shipment, err := r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE order_id = $1`, orderID)
	if errors.Is(err, domain.ErrShipmentNotFound) {
		return nil, nil
	}
	return shipment, err
}

func (r *PostgreSQLShipmentRepository) get(ctx context.Context, query string, arg uuid.UUID) (*domain.Shipment, error) {
	querier := database.GetTx(ctx, r.db)

	var shipment domain.Shipment
	err := querier.QueryRowContext(ctx, query, arg).Scan(&shipment.ID, &shipment.OrderID, &shipment.Carrier,
		&shipment.TrackingNumber, &shipment.Status, &shipment.ShippedAt, &shipment.DeliveredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get shipment")
	}
	return &shipment, nil
}

// Update stores the shipment status and delivery time.
func (r *PostgreSQLShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE shipments SET status = $1, delivered_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, shipment.Status, shipment.DeliveredAt, shipment.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update shipment")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}
