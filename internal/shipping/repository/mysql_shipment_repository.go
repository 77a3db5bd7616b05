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

// MySQLShipmentRepository persists shipments in MySQL. Ids are BINARY(16).
type MySQLShipmentRepository struct {
	db *sql.DB
}

// NewMySQLShipmentRepository creates a new MySQLShipmentRepository.
func NewMySQLShipmentRepository(db *sql.DB) *MySQLShipmentRepository {
	return &MySQLShipmentRepository{db: db}
}

// Create inserts a shipment.
func (r *MySQLShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := shipment.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal shipment id")
	}
	orderIDBytes, err := shipment.OrderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `INSERT INTO shipments (` + shipmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idBytes, orderIDBytes, shipment.Carrier,
		shipment.TrackingNumber, shipment.Status, shipment.ShippedAt, shipment.DeliveredAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create shipment")
	}
	return nil
}

// GetByID returns a shipment.
func (r *MySQLShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = ?`, id)
}

// GetByIDForUpdate returns a shipment and locks its row.
func (r *MySQLShipmentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = ? FOR UPDATE`, id)
}

// GetByOrder returns the shipment of an order, or nil.
func (r *MySQLShipmentRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error) {
	shipment, err := r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE order_id = ?`, orderID)
	if errors.Is(err, domain.ErrShipmentNotFound) {
		return nil, nil
	}
	return shipment, err
}

func (r *MySQLShipmentRepository) get(ctx context.Context, query string, arg uuid.UUID) (*domain.Shipment, error) {
	querier := database.GetTx(ctx, r.db)

	argBytes, err := arg.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal id")
	}

	var shipment domain.Shipment
	var idBytes, orderIDBytes []byte
	err = querier.QueryRowContext(ctx, query, argBytes).Scan(&idBytes, &orderIDBytes, &shipment.Carrier,
		&shipment.TrackingNumber, &shipment.Status, &shipment.ShippedAt, &shipment.DeliveredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get shipment")
	}

	if err := shipment.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal shipment id")
	}
	if err := shipment.OrderID.UnmarshalBinary(orderIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal order id")
	}
	return &shipment, nil
}

// Update stores the shipment status and delivery time.
func (r *MySQLShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := shipment.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal shipment id")
	}

	query := `UPDATE shipments SET status = ?, delivered_at = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, shipment.Status, shipment.DeliveredAt, idBytes); err != nil {
		return apperrors.Wrap(err, "failed to update shipment")
	}
	return nil
}
