// Package repository provides PostgreSQL and MySQL persistence for outbox records.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// PostgreSQLOutboxEventRepository handles outbox event persistence for PostgreSQL.
type PostgreSQLOutboxEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLOutboxEventRepository creates a new PostgreSQLOutboxEventRepository.
func NewPostgreSQLOutboxEventRepository(db *sql.DB) *PostgreSQLOutboxEventRepository {
	return &PostgreSQLOutboxEventRepository{db: db}
}

// Create inserts a new outbox event using the transaction carried by ctx, if any.
func (r *PostgreSQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO outbox_events (id, event_type, event_payload, aggregate_type, aggregate_id,
			  created_at, processed_at, retry_count, last_error, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(ctx, query, event.ID, event.EventType, event.Payload,
		event.AggregateType, event.AggregateID, event.CreatedAt, event.ProcessedAt,
		event.RetryCount, event.LastError, event.Status)
	if err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}
	return nil
}

// GetPendingEvents claims up to limit pending events in creation order. Rows locked by
// another processor are skipped, so the call must run inside a transaction for the
// claim to hold.
func (r *PostgreSQLOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, event_payload, aggregate_type, aggregate_id, created_at,
			  processed_at, retry_count, last_error, status
			  FROM outbox_events
			  WHERE status = $1
			  ORDER BY created_at ASC, id ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.OutboxEventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to claim outbox events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.OutboxEvent
	for rows.Next() {
		var event domain.OutboxEvent

		err := rows.Scan(&event.ID, &event.EventType, &event.Payload, &event.AggregateType,
			&event.AggregateID, &event.CreatedAt, &event.ProcessedAt, &event.RetryCount,
			&event.LastError, &event.Status)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan outbox event")
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate outbox events")
	}

	return events, nil
}

// Update persists the delivery state of an outbox event.
func (r *PostgreSQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_events
			  SET status = $1, retry_count = $2, last_error = $3, processed_at = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(ctx, query, event.Status, event.RetryCount, event.LastError,
		event.ProcessedAt, event.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox event")
	}
	return nil
}

// DeleteProcessedOlderThan removes processed events whose processed_at is before cutoff.
// When dryRun is true it only counts them. Pending and failed events are never touched.
func (r *PostgreSQLOutboxEventRepository) DeleteProcessedOlderThan(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM outbox_events WHERE status = $1 AND processed_at < $2`
		var count int64
		err := querier.QueryRowContext(ctx, query, domain.OutboxEventStatusProcessed, cutoff).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count processed outbox events")
		}
		return count, nil
	}

	query := `DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`
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

// CountByStatus returns the number of events per status. Statuses without rows are
// reported as zero.
func (r *PostgreSQLOutboxEventRepository) CountByStatus(
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

// RequeueFailed moves failed events back to pending so the processor delivers them
// again. retry_count is kept. An empty ids slice requeues every failed event.
func (r *PostgreSQLOutboxEventRepository) RequeueFailed(ctx context.Context, ids []uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var (
		result sql.Result
		err    error
	)
	if len(ids) == 0 {
		query := `UPDATE outbox_events SET status = $1 WHERE status = $2`
		result, err = querier.ExecContext(ctx, query, domain.OutboxEventStatusPending, domain.OutboxEventStatusFailed)
	} else {
		values := make([]string, len(ids))
		for i, id := range ids {
			values[i] = id.String()
		}
		query := `UPDATE outbox_events SET status = $1 WHERE status = $2 AND id = ANY($3::uuid[])`
		result, err = querier.ExecContext(ctx, query, domain.OutboxEventStatusPending,
			domain.OutboxEventStatusFailed, pq.Array(values))
	}
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to requeue outbox events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}

func scanStatusCounts(rows *sql.Rows) (map[domain.OutboxEventStatus]int64, error) {
	counts := map[domain.OutboxEventStatus]int64{
		domain.OutboxEventStatusPending:   0,
		domain.OutboxEventStatusProcessed: 0,
		domain.OutboxEventStatusFailed:    0,
	}
	for rows.Next() {
		var (
			status domain.OutboxEventStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan outbox status count")
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate outbox status counts")
	}
	return counts, nil
}
