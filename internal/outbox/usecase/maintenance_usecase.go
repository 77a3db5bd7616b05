package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/metrics"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// MaintenanceConfig configures retention cleanup.
type MaintenanceConfig struct {
	RetentionDays   int
	CleanupInterval time.Duration
}

type maintenanceUseCase struct {
	config     MaintenanceConfig
	outboxRepo OutboxEventRepository
	metrics    metrics.OutboxMetrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewMaintenanceUseCase creates the outbox MaintenanceUseCase.
func NewMaintenanceUseCase(
	config MaintenanceConfig,
	outboxRepo OutboxEventRepository,
	outboxMetrics metrics.OutboxMetrics,
	logger *slog.Logger,
) MaintenanceUseCase {
	if outboxMetrics == nil {
		outboxMetrics = metrics.NewNoOpOutboxMetrics()
	}
	return &maintenanceUseCase{
		config:     config,
		outboxRepo: outboxRepo,
		metrics:    outboxMetrics,
		logger:     orDiscard(logger),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m *maintenanceUseCase) DeleteProcessedOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be non-negative")
	}

	cutoff := m.now().AddDate(0, 0, -days)
	count, err := m.outboxRepo.DeleteProcessedOlderThan(ctx, cutoff, dryRun)
	if err != nil {
		return 0, err
	}
	if !dryRun {
		m.metrics.RecordCleanup(ctx, count)
	}
	return count, nil
}

func (m *maintenanceUseCase) RunCleanup(ctx context.Context) error {
	m.logger.Info("starting outbox retention cleanup",
		slog.Int("retention_days", m.config.RetentionDays),
		slog.Duration("interval", m.config.CleanupInterval),
	)

	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("stopping outbox retention cleanup")
			return ctx.Err()
		case <-ticker.C:
			count, err := m.DeleteProcessedOlderThan(ctx, m.config.RetentionDays, false)
			if err != nil {
				m.logger.Error("failed to clean outbox events", slog.Any("error", err))
				continue
			}
			m.logger.Info("cleaned outbox events", slog.Int64("deleted_count", count))
		}
	}
}

func (m *maintenanceUseCase) Stats(ctx context.Context) (map[domain.OutboxEventStatus]int64, error) {
	return m.outboxRepo.CountByStatus(ctx)
}

func (m *maintenanceUseCase) RequeueFailed(ctx context.Context, ids []uuid.UUID, all bool) (int64, error) {
	if len(ids) == 0 && !all {
		return 0, domain.ErrInvalidRequeueRequest
	}
	if all {
		ids = nil
	}

	count, err := m.outboxRepo.RequeueFailed(ctx, ids)
	if err != nil {
		return 0, err
	}
	m.logger.Info("requeued failed outbox events", slog.Int64("count", count))
	return count, nil
}
