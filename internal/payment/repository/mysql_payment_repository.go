package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/payment/domain"
)

// MySQLPaymentRepository persists payments in MySQL. Ids are BINARY(16).
type MySQLPaymentRepository struct {
	db *sql.DB
}

// NewMySQLPaymentRepository creates a new MySQLPaymentRepository.
func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

// Create inserts a payment.
func (r *MySQLPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := payment.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment id")
	}
	orderIDBytes, err := payment.OrderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `INSERT INTO payments (id, order_id, amount, currency, method, status, failure_reason,
			  provider_reference, attempts, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idBytes, orderIDBytes, payment.Amount, payment.Currency,
		payment.Method, payment.Status, payment.FailureReason, payment.ProviderReference, payment.Attempts,
		payment.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create payment")
	}
	return nil
}

// GetByID returns a payment.
func (r *MySQLPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal payment id")
	}

	query := `SELECT id, order_id, amount, currency, method, status, failure_reason, provider_reference,
			  attempts, created_at
			  FROM payments WHERE id = ?`

	payment, err := scanMySQLPayment(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get payment")
	}
	return payment, nil
}

// ListByOrder returns the order's payments oldest first.
func (r *MySQLPaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	orderIDBytes, err := orderID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `SELECT id, order_id, amount, currency, method, status, failure_reason, provider_reference,
			  attempts, created_at
			  FROM payments WHERE order_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, orderIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payments")
	}
	defer rows.Close() //nolint:errcheck

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanMySQLPayment(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan payment")
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate payments")
	}
	return payments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var idBytes, orderIDBytes []byte

	if err := row.Scan(&idBytes, &orderIDBytes, &payment.Amount, &payment.Currency, &payment.Method,
		&payment.Status, &payment.FailureReason, &payment.ProviderReference, &payment.Attempts,
		&payment.CreatedAt); err != nil {
		return nil, err
	}
	if err := payment.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := payment.OrderID.UnmarshalBinary(orderIDBytes); err != nil {
		return nil, err
	}
	return &payment, nil
}
