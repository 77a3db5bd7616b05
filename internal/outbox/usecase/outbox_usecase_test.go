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

	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

func testConfig() Config {
	return Config{
		Interval:   10 * time.Millisecond,
		BatchSize:  10,
		MaxRetries: 3,
	}
}

func pendingEvent(retries int) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:         uuid.Must(uuid.NewV7()),
		EventType:  "test.stock_reserved",
		Payload:    `{"reservation_id":"r-1","order_id":"o-1","quantity":2}`,
		Status:     domain.OutboxEventStatusPending,
		RetryCount: retries,
	}
}

func TestOutboxUseCase_Start_ContextCancellation(t *testing.T) {
	uc := NewOutboxUseCase(testConfig(), &MockTxManager{}, &MockOutboxEventRepository{}, &MockEventProcessor{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := uc.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutboxUseCase_Start_PollsUntilCancelled(t *testing.T) {
	txManager := &MockTxManager{}
	outboxRepo := &MockOutboxEventRepository{}

	ctx, cancel := context.WithCancel(context.Background())
	txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", mock.Anything, 10).
		Return([]*domain.OutboxEvent{}, nil).
		Run(func(mock.Arguments) { cancel() })

	uc := NewOutboxUseCase(testConfig(), txManager, outboxRepo, &MockEventProcessor{}, nil, nil)
	err := uc.Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	outboxRepo.AssertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_Success(t *testing.T) {
	txManager := &MockTxManager{}
	outboxRepo := &MockOutboxEventRepository{}
	eventProcessor := &MockEventProcessor{}
	uc := NewOutboxUseCase(testConfig(), txManager, outboxRepo, eventProcessor, nil, nil)

	ctx := context.Background()
	events := []*domain.OutboxEvent{pendingEvent(0), pendingEvent(1)}

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return(events, nil)
	eventProcessor.On("Process", ctx, events[0]).Return(nil)
	eventProcessor.On("Process", ctx, events[1]).Return(nil)
	outboxRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.Status == domain.OutboxEventStatusProcessed && e.ProcessedAt != nil
	})).Return(nil).Times(2)

	err := uc.ProcessEvents(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, events[1].RetryCount)
	txManager.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
	eventProcessor.AssertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_NoEvents(t *testing.T) {
	txManager := &MockTxManager{}
	outboxRepo := &MockOutboxEventRepository{}
	uc := NewOutboxUseCase(testConfig(), txManager, outboxRepo, &MockEventProcessor{}, nil, nil)

	ctx := context.Background()
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{}, nil)

	assert.NoError(t, uc.ProcessEvents(ctx))
	outboxRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestOutboxUseCase_ProcessEvents_GetPendingError(t *testing.T) {
	txManager := &MockTxManager{}
	outboxRepo := &MockOutboxEventRepository{}
	uc := NewOutboxUseCase(testConfig(), txManager, outboxRepo, &MockEventProcessor{}, nil, nil)

	ctx := context.Background()
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return(nil, errors.New("database error"))

	err := uc.ProcessEvents(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}

func TestOutboxUseCase_ProcessEvents_ProcessorError(t *testing.T) {
	txManager := &MockTxManager{}
	outboxRepo := &MockOutboxEventRepository{}
	eventProcessor := &MockEventProcessor{}
	uc := NewOutboxUseCase(testConfig(), txManager, outboxRepo, eventProcessor, nil, nil)

	ctx := context.Background()
	failing := pendingEvent(0)
	healthy := pendingEvent(0)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{failing, healthy}, nil)
	eventProcessor.On("Process", ctx, failing).Return(errors.New("listener failed"))
	eventProcessor.On("Process", ctx, healthy).Return(nil)
	outboxRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.ID == failing.ID && e.RetryCount == 1 &&
			e.Status == domain.OutboxEventStatusPending && *e.LastError == "listener failed"
	})).Return(nil).Once()
	outboxRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.ID == healthy.ID && e.Status == domain.OutboxEventStatusProcessed
	})).Return(nil).Once()

	err := uc.ProcessEvents(ctx)

	assert.NoError(t, err)
	outboxRepo.AssertExpectations(t)
	eventProcessor.AssertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_MaxRetriesReached(t *testing.T) {
	txManager := &MockTxManager{}
	outboxRepo := &MockOutboxEventRepository{}
	eventProcessor := &MockEventProcessor{}
	uc := NewOutboxUseCase(testConfig(), txManager, outboxRepo, eventProcessor, nil, nil)

	ctx := context.Background()
	event := pendingEvent(2)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{event}, nil)
	eventProcessor.On("Process", ctx, event).Return(errors.New("listener failed"))
	outboxRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.RetryCount == 3 && e.Status == domain.OutboxEventStatusFailed && e.ProcessedAt == nil
	})).Return(nil)

	assert.NoError(t, uc.ProcessEvents(ctx))
	outboxRepo.AssertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_UpdateError(t *testing.T) {
	txManager := &MockTxManager{}
	outboxRepo := &MockOutboxEventRepository{}
	eventProcessor := &MockEventProcessor{}
	uc := NewOutboxUseCase(testConfig(), txManager, outboxRepo, eventProcessor, nil, nil)

	ctx := context.Background()
	first := pendingEvent(0)
	second := pendingEvent(0)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{first, second}, nil)
	eventProcessor.On("Process", ctx, first).Return(nil)
	outboxRepo.On("Update", ctx, mock.AnythingOfType("*domain.OutboxEvent")).Return(errors.New("update failed"))

	err := uc.ProcessEvents(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "update failed")
	eventProcessor.AssertNotCalled(t, "Process", ctx, second)
}

func TestOutboxUseCase_RetryBoundary(t *testing.T) {
	const maxRetries = 5

	newFixture := func(failures int) (*OutboxUseCase, *memoryOutboxRepository, *domain.OutboxEvent, *int) {
		repo := &memoryOutboxRepository{}
		record := pendingEvent(0)
		require.NoError(t, repo.Create(context.Background(), record))

		calls := 0
		registry := domain.NewRegistry()
		domain.MustRegisterEvent[stockReserved](registry)
		bus := NewEventBus()
		On(bus, func(context.Context, stockReserved) error {
			calls++
			if calls <= failures {
				return errors.New("listener unavailable")
			}
			return nil
		})

		txManager := &MockTxManager{}
		txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)

		config := Config{Interval: time.Second, BatchSize: 100, MaxRetries: maxRetries}
		uc := NewOutboxUseCase(config, txManager, repo, NewEventDispatcher(registry, bus, nil), nil, nil)
		return uc, repo, record, &calls
	}

	t.Run("succeeds after maxRetries-1 failures", func(t *testing.T) {
		uc, repo, record, calls := newFixture(maxRetries - 1)

		for range maxRetries + 2 {
			require.NoError(t, uc.ProcessEvents(context.Background()))
		}

		stored := repo.get(record.ID)
		assert.Equal(t, domain.OutboxEventStatusProcessed, stored.Status)
		assert.NotNil(t, stored.ProcessedAt)
		assert.Equal(t, maxRetries-1, stored.RetryCount)
		assert.Equal(t, maxRetries, *calls)
	})

	t.Run("fails after maxRetries failures and is never retried", func(t *testing.T) {
		uc, repo, record, calls := newFixture(maxRetries)

		for range maxRetries + 3 {
			require.NoError(t, uc.ProcessEvents(context.Background()))
		}

		stored := repo.get(record.ID)
		assert.Equal(t, domain.OutboxEventStatusFailed, stored.Status)
		assert.Nil(t, stored.ProcessedAt)
		assert.Equal(t, maxRetries, stored.RetryCount)
		assert.Equal(t, maxRetries, *calls)
	})

	t.Run("unknown event type ends failed", func(t *testing.T) {
		uc, repo, _, _ := newFixture(0)
		orphan := &domain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: "test.unregistered",
			Payload:   `{}`,
			Status:    domain.OutboxEventStatusPending,
		}
		require.NoError(t, repo.Create(context.Background(), orphan))

		for range maxRetries {
			require.NoError(t, uc.ProcessEvents(context.Background()))
		}

		stored := repo.get(orphan.ID)
		assert.Equal(t, domain.OutboxEventStatusFailed, stored.Status)
		assert.Contains(t, *stored.LastError, "unknown event type")
	})
}
