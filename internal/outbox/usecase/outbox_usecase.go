package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/wingedsheep/eco-logique/internal/database"
	"github.com/wingedsheep/eco-logique/internal/metrics"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// Config holds outbox processor configuration.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxUseCase claims pending outbox records and delivers them.
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	metrics        metrics.OutboxMetrics
	logger         *slog.Logger
	now            func() time.Time
}

// NewOutboxUseCase creates a new OutboxUseCase. A nil logger discards output and nil
// metrics are replaced by a no-op recorder.
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	outboxMetrics metrics.OutboxMetrics,
	logger *slog.Logger,
) *OutboxUseCase {
	if outboxMetrics == nil {
		outboxMetrics = metrics.NewNoOpOutboxMetrics()
	}
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		metrics:        outboxMetrics,
		logger:         orDiscard(logger),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Start runs ProcessEvents every Interval until ctx is cancelled. Cycle errors are
// logged and the loop keeps going.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox event processor",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
		slog.Int("max_retries", uc.config.MaxRetries),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox event processor")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				uc.logger.Error("failed to process outbox events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents claims a batch of pending records in one transaction and delivers them
// in claim order. A delivery failure only affects its own record; a repository error
// aborts the cycle and rolls the transaction back.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	start := time.Now()
	claimed := 0

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		claimed = len(events)
		if claimed == 0 {
			return nil
		}

		uc.logger.Debug("processing outbox events", slog.Int("count", claimed))

		// Listeners commit their own writes, independent of the claim transaction.
		deliveryCtx := database.WithoutTx(ctx)

		for _, event := range events {
			if err := uc.eventProcessor.Process(deliveryCtx, event); err != nil {
				event.MarkAttemptFailed(err, uc.config.MaxRetries)

				outcome := metrics.OutcomeRetry
				if event.Status == domain.OutboxEventStatusFailed {
					outcome = metrics.OutcomeFailed
				}
				uc.logger.Error("failed to deliver outbox event",
					slog.String("event_id", event.ID.String()),
					slog.String("event_type", event.EventType),
					slog.Int("retry_count", event.RetryCount),
					slog.String("outcome", outcome),
					slog.Any("error", err),
				)
				uc.metrics.RecordDelivery(ctx, event.EventType, outcome)

				if err := uc.outboxRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			event.MarkProcessed(uc.now())
			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
			uc.metrics.RecordDelivery(ctx, event.EventType, metrics.OutcomeProcessed)
		}

		return nil
	})

	uc.metrics.RecordCycle(ctx, claimed, time.Since(start))
	return err
}
