package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wingedsheep/eco-logique/internal/metrics"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

const outboxStatsTimeout = 5 * time.Second

// outboxStatuses is the order statuses are reported in.
var outboxStatuses = []outboxDomain.OutboxEventStatus{
	outboxDomain.OutboxEventStatusPending,
	outboxDomain.OutboxEventStatusProcessed,
	outboxDomain.OutboxEventStatusFailed,
}

// OutboxStats counts outbox events per delivery status.
type OutboxStats interface {
	Stats(ctx context.Context) (map[outboxDomain.OutboxEventStatus]int64, error)
}

// MetricsServer is the operations listener, kept off the public API port. It serves the
// Prometheus scrape at /metrics and the outbox backlog at /outbox/stats.
type MetricsServer struct {
	server *http.Server
	outbox OutboxStats
	logger *slog.Logger
}

// NewMetricsServer creates a MetricsServer. A nil outbox leaves /outbox/stats unrouted.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
	outbox OutboxStats,
) *MetricsServer {
	s := &MetricsServer{outbox: outbox, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))
	}
	if outbox != nil {
		router.GET("/outbox/stats", s.outboxStatsHandler)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	return nil
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}

// outboxStatsHandler reports every status, zero when no event has it, plus a pending
// backlog flag for alerting.
func (s *MetricsServer) outboxStatsHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), outboxStatsTimeout)
	defer cancel()

	counts, err := s.outbox.Stats(ctx)
	if err != nil {
		s.logger.Warn("failed to read outbox stats", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "outbox_unavailable",
			"message": "Outbox statistics are unavailable",
		})
		return
	}

	byStatus := make(map[string]int64, len(outboxStatuses))
	var total int64
	for _, status := range outboxStatuses {
		byStatus[string(status)] = counts[status]
		total += counts[status]
	}

	c.JSON(http.StatusOK, gin.H{
		"statuses": byStatus,
		"total":    total,
		"backlog":  counts[outboxDomain.OutboxEventStatusPending] > 0,
	})
}
