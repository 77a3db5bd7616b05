package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	outboxUseCase "github.com/wingedsheep/eco-logique/internal/outbox/usecase"
)

// RunCleanOutbox deletes processed outbox events older than days. With dryRun the
// matching events are only counted. format is "text" or "json".
func RunCleanOutbox(
	ctx context.Context,
	maintenanceUseCase outboxUseCase.MaintenanceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning outbox events",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := maintenanceUseCase.DeleteProcessedOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete outbox events: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		}); err != nil {
			return err
		}
	} else {
		outputCleanOutboxText(writer, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func outputCleanOutboxText(w io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(w, "Dry-run mode: Would delete %d processed outbox event(s) older than %d day(s)\n", count, days)
		return
	}
	_, _ = fmt.Fprintf(w, "Successfully deleted %d processed outbox event(s) older than %d day(s)\n", count, days)
}
