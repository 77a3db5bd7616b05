package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

func newMaintenance(repo OutboxEventRepository, now time.Time) *maintenanceUseCase {
	uc := NewMaintenanceUseCase(MaintenanceConfig{RetentionDays: 7, CleanupInterval: 10 * time.Millisecond}, repo, nil, nil).(*maintenanceUseCase)
	uc.now = func() time.Time { return now }
	return uc
}

func TestMaintenanceUseCase_DeleteProcessedOlderThan(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	expectedCutoff := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("deletes with cutoff", func(t *testing.T) {
		repo := &MockOutboxEventRepository{}
		repo.On("DeleteProcessedOlderThan", mock.Anything, expectedCutoff, false).Return(int64(12), nil)

		count, err := newMaintenance(repo, now).DeleteProcessedOlderThan(context.Background(), 7, false)

		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
		repo.AssertExpectations(t)
	})

	t.Run("dry run", func(t *testing.T) {
		repo := &MockOutboxEventRepository{}
		repo.On("DeleteProcessedOlderThan", mock.Anything, expectedCutoff, true).Return(int64(4), nil)

		count, err := newMaintenance(repo, now).DeleteProcessedOlderThan(context.Background(), 7, true)

		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("negative days", func(t *testing.T) {
		_, err := newMaintenance(&MockOutboxEventRepository{}, now).DeleteProcessedOlderThan(context.Background(), -1, false)

		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &MockOutboxEventRepository{}
		repo.On("DeleteProcessedOlderThan", mock.Anything, expectedCutoff, false).Return(int64(0), errors.New("db down"))

		_, err := newMaintenance(repo, now).DeleteProcessedOlderThan(context.Background(), 7, false)

		assert.EqualError(t, err, "db down")
	})
}

func TestMaintenanceUseCase_RunCleanup(t *testing.T) {
	repo := &MockOutboxEventRepository{}
	ctx, cancel := context.WithCancel(context.Background())

	repo.On("DeleteProcessedOlderThan", mock.Anything, mock.AnythingOfType("time.Time"), false).
		Return(int64(1), nil).
		Run(func(mock.Arguments) { cancel() })

	err := newMaintenance(repo, time.Now().UTC()).RunCleanup(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertCalled(t, "DeleteProcessedOlderThan", mock.Anything, mock.AnythingOfType("time.Time"), false)
}

func TestMaintenanceUseCase_RequeueFailed(t *testing.T) {
	now := time.Now().UTC()

	t.Run("requires ids or all", func(t *testing.T) {
		_, err := newMaintenance(&MockOutboxEventRepository{}, now).RequeueFailed(context.Background(), nil, false)

		assert.ErrorIs(t, err, domain.ErrInvalidRequeueRequest)
	})

	t.Run("by ids", func(t *testing.T) {
		ids := []uuid.UUID{uuid.Must(uuid.NewV7())}
		repo := &MockOutboxEventRepository{}
		repo.On("RequeueFailed", mock.Anything, ids).Return(int64(1), nil)

		count, err := newMaintenance(repo, now).RequeueFailed(context.Background(), ids, false)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("all ignores ids", func(t *testing.T) {
		repo := &MockOutboxEventRepository{}
		repo.On("RequeueFailed", mock.Anything, []uuid.UUID(nil)).Return(int64(9), nil)

		count, err := newMaintenance(repo, now).RequeueFailed(context.Background(), []uuid.UUID{uuid.New()}, true)

		require.NoError(t, err)
		assert.Equal(t, int64(9), count)
	})
}

func TestMaintenanceUseCase_Stats(t *testing.T) {
	repo := &MockOutboxEventRepository{}
	counts := map[domain.OutboxEventStatus]int64{domain.OutboxEventStatusPending: 2}
	repo.On("CountByStatus", mock.Anything).Return(counts, nil)

	got, err := newMaintenance(repo, time.Now()).Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, counts, got)
}
