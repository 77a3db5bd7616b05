package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
	outboxUseCase "github.com/wingedsheep/eco-logique/internal/outbox/usecase"
)

var outboxStatuses = []outboxDomain.OutboxEventStatus{
	outboxDomain.OutboxEventStatusPending,
	outboxDomain.OutboxEventStatusProcessed,
	outboxDomain.OutboxEventStatusFailed,
}

// RunRequeueOutbox moves failed outbox events back to pending so the processor retries
// them, then prints the per-status counts.
func RunRequeueOutbox(
	ctx context.Context,
	maintenanceUseCase outboxUseCase.MaintenanceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	rawIDs []string,
	all bool,
	format string,
) error {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid outbox event id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	logger.Info("requeueing failed outbox events",
		slog.Int("ids", len(ids)),
		slog.Bool("all", all),
	)

	count, err := maintenanceUseCase.RequeueFailed(ctx, ids, all)
	if err != nil {
		return fmt.Errorf("failed to requeue outbox events: %w", err)
	}

	stats, err := maintenanceUseCase.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read outbox stats: %w", err)
	}

	if format == "json" {
		byStatus := make(map[string]int64, len(outboxStatuses))
		for _, status := range outboxStatuses {
			byStatus[string(status)] = stats[status]
		}
		if err := writeJSON(writer, map[string]any{
			"requeued": count,
			"stats":    byStatus,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Requeued %d failed outbox event(s)\n", count)
		for _, status := range outboxStatuses {
			_, _ = fmt.Fprintf(writer, "  %-10s %d\n", status, stats[status])
		}
	}

	logger.Info("requeue completed", slog.Int64("count", count))
	return nil
}
