// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartHTTP "github.com/wingedsheep/eco-logique/internal/cart/http"
	checkoutHTTP "github.com/wingedsheep/eco-logique/internal/checkout/http"
	"github.com/wingedsheep/eco-logique/internal/config"
	inventoryHTTP "github.com/wingedsheep/eco-logique/internal/inventory/http"
	"github.com/wingedsheep/eco-logique/internal/metrics"
	ordersHTTP "github.com/wingedsheep/eco-logique/internal/orders/http"
	shippingHTTP "github.com/wingedsheep/eco-logique/internal/shipping/http"
)

// Server represents the HTTP server. Its context scopes the background work of the
// router's middleware and is cancelled by Shutdown.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new HTTP server. The router is built by SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		db:     db,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and every module route.
func (s *Server) SetupRouter(
	cfg *config.Config,
	cartHandler *cartHTTP.CartHandler,
	inventoryHandler *inventoryHTTP.InventoryHandler,
	orderHandler *ordersHTTP.OrderHandler,
	checkoutHandler *checkoutHTTP.CheckoutHandler,
	shippingHandler *shippingHTTP.ShippingHandler,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Checkout and payment retry are the expensive paths; throttle them per client IP.
	checkoutGuard := passThroughMiddleware
	if cfg.RateLimitCheckoutEnabled {
		checkoutGuard = RateLimitMiddleware(
			s.ctx,
			cfg.RateLimitCheckoutRequestsPerSec,
			cfg.RateLimitCheckoutBurst,
			s.logger,
		)
	}

	v1 := router.Group("/v1")
	{
		v1.POST("/checkout", checkoutGuard, checkoutHandler.CheckoutHandler)

		orders := v1.Group("/orders")
		{
			orders.GET("/:id", orderHandler.GetHandler)
			orders.POST("/:id/payment", checkoutGuard, checkoutHandler.RetryPaymentHandler)
			orders.POST("/:id/cancel", checkoutHandler.CancelOrderHandler)
		}

		v1.GET("/users/:user_id/orders", orderHandler.ListByOwnerHandler)

		carts := v1.Group("/carts/:user_id")
		{
			carts.GET("", cartHandler.GetHandler)
			carts.DELETE("", cartHandler.ClearHandler)
			carts.POST("/items", cartHandler.AddItemHandler)
			carts.DELETE("/items/:product_id", cartHandler.RemoveItemHandler)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("/reservations", inventoryHandler.ReserveStockHandler)
			inventory.DELETE("/reservations/:id", inventoryHandler.ReleaseReservationHandler)
			inventory.GET("/:product_id", inventoryHandler.GetStockHandler)
			inventory.PUT("/:product_id/warehouses/:warehouse_id", inventoryHandler.SetStockHandler)
		}

		shipments := v1.Group("/shipments")
		{
			shipments.POST("", shippingHandler.ShipHandler)
			shipments.GET("/:id", shippingHandler.GetHandler)
			shipments.POST("/:id/deliver", shippingHandler.DeliverHandler)
		}
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the database with a short timeout.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
