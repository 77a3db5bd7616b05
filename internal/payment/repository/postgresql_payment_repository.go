// Package repository implements payment persistence for PostgreSQL and MySQL.
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

// PostgreSQLPaymentRepository persists payments in PostgreSQL.
type PostgreSQLPaymentRepository struct {
	db *sql.DB
}

// NewPostgreSQLPaymentRepository creates a new PostgreSQLPaymentRepository.
func NewPostgreSQLPaymentRepository(db *sql.DB) *PostgreSQLPaymentRepository {
	return &PostgreSQLPaymentRepository{db: db}
}

// Create inserts a payment.
func (r *PostgreSQLPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO payments (id, order_id, amount, currency, method, status, failure_reason,
			  provider_reference, attempts, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(ctx, query, payment.ID, payment.OrderID, payment.Amount, payment.Currency,
		payment.Method, payment.Status, payment.FailureReason, payment.ProviderReference, payment.Attempts,
		payment.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create payment")
	}
	return nil
}

// GetByID returns a payment.
func (r *PostgreSQLPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, amount, currency, method, status, failure_reason, provider_reference,
			  attempts, created_at
			  FROM payments WHERE id = $1`

	var payment domain.Payment
	err := querier.QueryRowContext(ctx, query, id).Scan(&payment.ID, &payment.OrderID, &payment.Amount,
		&payment.Currency, &payment.Method, &payment.Status, &payment.FailureReason, &payment.ProviderReference,
		&payment.Attempts, &payment.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get payment")
	}
	return &payment, nil
}

// ListByOrder returns the order's payments oldest first.
func (r *PostgreSQLPaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, amount, currency, method, status, failure_reason, provider_reference,
			  attempts, created_at
			  FROM payments WHERE order_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payments")
	}
	defer rows.Close() //nolint:errcheck

	var payments []*domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Currency, &payment.Method,
			&payment.Status, &payment.FailureReason, &payment.ProviderReference, &payment.Attempts,
			&payment.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan payment")
		}
		payments = append(payments, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate payments")
	}
	return payments, nil
}
