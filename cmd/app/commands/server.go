package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wingedsheep/eco-logique/internal/app"
	"github.com/wingedsheep/eco-logique/internal/config"
)

const shutdownTimeout = 30 * time.Second

// runnable is a long-lived server stopped through Shutdown.
type runnable interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// namedServer pairs a server with the name used in logs and errors.
type namedServer struct {
	name   string
	server runnable
}

// backgroundTask runs until its context is cancelled.
type backgroundTask struct {
	name string
	run  func(ctx context.Context) error
}

// RunServer starts the API, the metrics server and, when OUTBOX_ENABLED is set, the
// outbox processor and retention cleanup. Blocks until SIGINT/SIGTERM or the first
// component failure, then shuts everything down.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	servers := []namedServer{{name: "api server", server: server}}
	if metricsServer != nil {
		servers = append(servers, namedServer{name: "metrics server", server: metricsServer})
	}

	tasks, err := enabledOutboxTasks(cfg, container)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		logger.Warn("outbox processor disabled, events stay pending until a worker runs")
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, logger, servers, tasks, shutdownTimeout)
}

// RunWorker runs only the outbox processor and the retention cleanup. With
// OUTBOX_ENABLED off it has nothing to run and returns immediately.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	tasks, err := enabledOutboxTasks(cfg, container)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		logger.Warn("outbox processor disabled by OUTBOX_ENABLED, worker not started")
		return nil
	}
	logger.Info("starting outbox worker", slog.String("version", version))

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, logger, nil, tasks, shutdownTimeout)
}

// enabledOutboxTasks returns the outbox tasks, or none when OUTBOX_ENABLED is off.
func enabledOutboxTasks(cfg *config.Config, container *app.Container) ([]backgroundTask, error) {
	if !cfg.OutboxEnabled {
		return nil, nil
	}
	return outboxTasks(container)
}

func outboxTasks(container *app.Container) ([]backgroundTask, error) {
	outboxUseCase, err := container.OutboxUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize outbox processor: %w", err)
	}

	maintenanceUseCase, err := container.MaintenanceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize outbox maintenance: %w", err)
	}

	return []backgroundTask{
		{name: "outbox processor", run: outboxUseCase.Start},
		{name: "outbox cleanup", run: maintenanceUseCase.RunCleanup},
	}, nil
}

// serve runs servers and tasks until ctx is done or one of them fails. Servers get
// shutdownTimeout to drain. Context cancellation is not reported as an error.
func serve(
	ctx context.Context,
	logger *slog.Logger,
	servers []namedServer,
	tasks []backgroundTask,
	shutdownTimeout time.Duration,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		g.Go(func() error {
			if err := s.server.Start(gctx); err != nil {
				return fmt.Errorf("%s error: %w", s.name, err)
			}
			return nil
		})
	}

	for _, task := range tasks {
		g.Go(func() error {
			err := task.run(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s error: %w", task.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("component failed, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for _, s := range servers {
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("%s shutdown: %w", s.name, err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
