package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

func TestMySQLOutboxEventRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	event := &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: "inventory.reserved",
		Payload:   `{}`,
		Status:    domain.OutboxEventStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	idBytes, err := event.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(idBytes, "inventory.reserved", `{}`, nil, nil, sqlmock.AnyArg(), nil, 0, nil, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewMySQLOutboxEventRepository(db).Create(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOutboxEventRepository_GetPendingEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	id := uuid.Must(uuid.NewV7())
	idBytes, err := id.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectQuery(`ORDER BY created_at ASC, id ASC\s+LIMIT \?\s+FOR UPDATE SKIP LOCKED`).
		WithArgs("PENDING", 5).
		WillReturnRows(sqlmock.NewRows(outboxColumns).
			AddRow(idBytes, "order.created", `{}`, "order", "o-1", time.Now(), nil, 1, "boom", "PENDING"))

	events, err := NewMySQLOutboxEventRepository(db).GetPendingEvents(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, 1, events[0].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOutboxEventRepository_GetPendingEvents_InvalidID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	mock.ExpectQuery(`FOR UPDATE SKIP LOCKED`).
		WillReturnRows(sqlmock.NewRows(outboxColumns).
			AddRow([]byte{1, 2, 3}, "order.created", `{}`, nil, nil, time.Now(), nil, 0, nil, "PENDING"))

	_, err = NewMySQLOutboxEventRepository(db).GetPendingEvents(context.Background(), 5)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal outbox event id")
}

func TestMySQLOutboxEventRepository_RequeueFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	id1 := uuid.Must(uuid.NewV7())
	id2 := uuid.Must(uuid.NewV7())
	b1, _ := id1.MarshalBinary()
	b2, _ := id2.MarshalBinary()

	mock.ExpectExec(`AND id IN \(\?, \?\)`).
		WithArgs("PENDING", "FAILED", b1, b2).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := NewMySQLOutboxEventRepository(db).RequeueFailed(context.Background(), []uuid.UUID{id1, id2})

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOutboxEventRepository_DeleteProcessedOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	cutoff := time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM outbox_events WHERE status = \? AND processed_at < \?`).
		WithArgs("PROCESSED", cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := NewMySQLOutboxEventRepository(db).DeleteProcessedOlderThan(context.Background(), cutoff, false)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
