package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// MySQLOutboxEventRepository handles outbox event persistence for MySQL. Ids are
// stored as BINARY(16).
type MySQLOutboxEventRepository struct {
	db *sql.DB
}

// NewMySQLOutboxEventRepository creates a new MySQLOutboxEventRepository.
func NewMySQLOutboxEventRepository(db *sql.DB) *MySQLOutboxEventRepository {
	return &MySQLOutboxEventRepository{db: db}
}

// Create inserts a new outbox event using the transaction carried by ctx, if any.
func (r *MySQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal outbox event id")
	}

	query := `INSERT INTO outbox_events (id, event_type, event_payload, aggregate_type, aggregate_id,
			  created_at, processed_at, retry_count, last_error, status)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idBytes, event.EventType, event.Payload,
		event.AggregateType, event.AggregateID, event.CreatedAt, event.ProcessedAt,
		event.RetryCount, event.LastError, event.Status)
	if err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}
	return nil
}

// GetPendingEvents claims up to limit pending events in creation order, skipping rows
// locked by another processor.
func (r *MySQLOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, event_payload, aggregate_type, aggregate_id, created_at,
			  processed_at, retry_count, last_error, status
			  FROM outbox_events
			  WHERE status = ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.OutboxEventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to claim outbox events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.OutboxEvent
	for rows.Next() {
		var event domain.OutboxEvent
		var idBytes []byte

		err := rows.Scan(&idBytes, &event.EventType, &event.Payload, &event.AggregateType,
			&event.AggregateID, &event.CreatedAt, &event.ProcessedAt, &event.RetryCount,
			&event.LastError, &event.Status)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan outbox event")
		}

		if err := event.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal outbox event id")
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate outbox events")
	}

	return events, nil
}

// Update persists the delivery state of an outbox event.
func (r *MySQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal outbox event id")
	}

	query := `UPDATE outbox_events
			  SET status = ?, retry_count = ?, last_error = ?, processed_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, event.Status, event.RetryCount, event.LastError,
		event.ProcessedAt, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox event")
	}
	return nil
}

// DeleteProcessedOlderThan removes processed events whose processed_at is before cutoff.
// When dryRun is true it only counts them.
func (r *MySQLOutboxEventRepository) DeleteProcessedOlderThan(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM outbox_events WHERE status = ? AND processed_at < ?`
		var count int64
		err := querier.QueryRowContext(ctx, query, domain.OutboxEventStatusProcessed, cutoff).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count processed outbox events")
		}
		return count, nil
	}

	query := `DELETE FROM outbox_events WHERE status = ? AND processed_at < ?`
	result, err := querier.ExecContext(ctx, query, domain.OutboxEventStatusProcessed, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete processed outbox events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}

// CountByStatus returns the number of events per status.
func (r *MySQLOutboxEventRepository) CountByStatus(
	ctx context.Context,
) (map[domain.OutboxEventStatus]int64, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, `SELECT status, COUNT(*) FROM outbox_events GROUP BY status`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count outbox events")
	}
	defer rows.Close() //nolint:errcheck

	return scanStatusCounts(rows)
}

// RequeueFailed moves failed events back to pending, keeping retry_count. An empty ids
// slice requeues every failed event.
func (r *MySQLOutboxEventRepository) RequeueFailed(ctx context.Context, ids []uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_events SET status = ? WHERE status = ?`
	args := []any{domain.OutboxEventStatusPending, domain.OutboxEventStatusFailed}

	if len(ids) > 0 {
		placeholders := make([]string, len(ids))
		for i, id := range ids {
			idBytes, err := id.MarshalBinary()
			if err != nil {
				return 0, apperrors.Wrap(err, "failed to marshal outbox event id")
			}
			placeholders[i] = "?"
			args = append(args, idBytes)
		}
		query += ` AND id IN (` + strings.Join(placeholders, ", ") + `)`
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to requeue outbox events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}
