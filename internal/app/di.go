// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	cartHTTP "github.com/wingedsheep/eco-logique/internal/cart/http"
	cartUseCase "github.com/wingedsheep/eco-logique/internal/cart/usecase"
	checkoutHTTP "github.com/wingedsheep/eco-logique/internal/checkout/http"
	checkoutUseCase "github.com/wingedsheep/eco-logique/internal/checkout/usecase"
	"github.com/wingedsheep/eco-logique/internal/config"
	"github.com/wingedsheep/eco-logique/internal/database"
	"github.com/wingedsheep/eco-logique/internal/http"
	inventoryHTTP "github.com/wingedsheep/eco-logique/internal/inventory/http"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
	"github.com/wingedsheep/eco-logique/internal/metrics"
	ordersHTTP "github.com/wingedsheep/eco-logique/internal/orders/http"
	ordersUseCase "github.com/wingedsheep/eco-logique/internal/orders/usecase"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
	"github.com/wingedsheep/eco-logique/internal/outbox/relay"
	outboxUseCase "github.com/wingedsheep/eco-logique/internal/outbox/usecase"
	paymentUseCase "github.com/wingedsheep/eco-logique/internal/payment/usecase"
	shippingHTTP "github.com/wingedsheep/eco-logique/internal/shipping/http"
	shippingUseCase "github.com/wingedsheep/eco-logique/internal/shipping/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	redisClient     redis.UniversalClient
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	outboxMetrics   metrics.OutboxMetrics

	// Outbox
	eventRegistry      *outboxDomain.Registry
	eventBus           *outboxUseCase.EventBus
	eventRelay         relay.Relay
	outboxRepository   outboxUseCase.OutboxEventRepository
	publisher          outboxUseCase.Publisher
	outboxUseCase      outboxUseCase.UseCase
	maintenanceUseCase outboxUseCase.MaintenanceUseCase

	// Inventory
	inventoryItemRepository inventoryUseCase.InventoryItemRepository
	reservationRepository   inventoryUseCase.ReservationRepository
	inventoryUseCase        inventoryUseCase.UseCase
	inventoryHandler        *inventoryHTTP.InventoryHandler

	// Orders
	orderRepository ordersUseCase.OrderRepository
	orderUseCase    ordersUseCase.UseCase
	orderHandler    *ordersHTTP.OrderHandler

	// Payment
	paymentRepository paymentUseCase.PaymentRepository
	paymentUseCase    paymentUseCase.UseCase

	// Cart
	cartRepository cartUseCase.CartRepository
	cartUseCase    cartUseCase.UseCase
	cartHandler    *cartHTTP.CartHandler

	// Shipping
	shipmentRepository shippingUseCase.ShipmentRepository
	shippingUseCase    shippingUseCase.UseCase
	shippingHandler    *shippingHTTP.ShippingHandler

	// Checkout
	checkoutUseCase checkoutUseCase.UseCase
	checkoutHandler *checkoutHTTP.CheckoutHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                          sync.Mutex
	loggerInit                  sync.Once
	dbInit                      sync.Once
	txManagerInit               sync.Once
	redisClientInit             sync.Once
	metricsProviderInit         sync.Once
	businessMetricsInit         sync.Once
	outboxMetricsInit           sync.Once
	eventRegistryInit           sync.Once
	eventBusInit                sync.Once
	eventRelayInit              sync.Once
	outboxRepositoryInit        sync.Once
	publisherInit               sync.Once
	outboxUseCaseInit           sync.Once
	maintenanceUseCaseInit      sync.Once
	inventoryItemRepositoryInit sync.Once
	reservationRepositoryInit   sync.Once
	inventoryUseCaseInit        sync.Once
	inventoryHandlerInit        sync.Once
	orderRepositoryInit         sync.Once
	orderUseCaseInit            sync.Once
	orderHandlerInit            sync.Once
	paymentRepositoryInit       sync.Once
	paymentUseCaseInit          sync.Once
	cartRepositoryInit          sync.Once
	cartUseCaseInit             sync.Once
	cartHandlerInit             sync.Once
	shipmentRepositoryInit      sync.Once
	shippingUseCaseInit         sync.Once
	shippingHandlerInit         sync.Once
	checkoutUseCaseInit         sync.Once
	checkoutHandlerInit         sync.Once
	httpServerInit              sync.Once
	metricsServerInit           sync.Once
	initErrors                  map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.setInitError("db", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("db"); storedErr != nil {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("txManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.txManager, nil
}

// RedisClient returns the go-redis client used by the cart store.
func (c *Container) RedisClient() redis.UniversalClient {
	c.redisClientInit.Do(func() {
		c.redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{c.config.RedisAddr},
		})
	})
	return c.redisClient
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when metrics
// are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.setInitError("metricsProvider", fmt.Errorf("failed to create metrics provider: %w", err))
		}
	})
	if storedErr := c.initError("metricsProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business operation recorder. It is a no-op when metrics
// are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("businessMetrics"); storedErr != nil {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// OutboxMetrics returns the outbox delivery recorder. It is a no-op when metrics are
// disabled.
func (c *Container) OutboxMetrics() (metrics.OutboxMetrics, error) {
	var err error
	c.outboxMetricsInit.Do(func() {
		c.outboxMetrics, err = c.initOutboxMetrics()
		if err != nil {
			c.setInitError("outboxMetrics", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("outboxMetrics"); storedErr != nil {
		return nil, storedErr
	}
	return c.outboxMetrics, nil
}

// HTTPServer returns the API server with every module route registered.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.setInitError("httpServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("httpServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the operations server (Prometheus scrape and outbox stats), or
// nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	var err error
	c.metricsServerInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.setInitError("metricsServer", err)
			return
		}
		maintenance, maintenanceErr := c.MaintenanceUseCase()
		if maintenanceErr != nil {
			err = fmt.Errorf("failed to get maintenance use case for metrics server: %w", maintenanceErr)
			c.setInitError("metricsServer", err)
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
			maintenance,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.eventRelay != nil {
		if err := c.eventRelay.Close(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("event relay close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

func (c *Container) setInitError(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[key] = err
}

func (c *Container) initError(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[key]
}

// initLogger creates a JSON logger at the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

func (c *Container) initOutboxMetrics() (metrics.OutboxMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpOutboxMetrics(), nil
	}
	outboxMetrics, err := metrics.NewOutboxMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox metrics: %w", err)
	}
	return outboxMetrics, nil
}

// initHTTPServer creates the API server and registers every handler.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	cartHandler, err := c.CartHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart handler for http server: %w", err)
	}

	inventoryHandler, err := c.InventoryHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory handler for http server: %w", err)
	}

	orderHandler, err := c.OrderHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get order handler for http server: %w", err)
	}

	checkoutHandler, err := c.CheckoutHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout handler for http server: %w", err)
	}

	shippingHandler, err := c.ShippingHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		c.config,
		cartHandler,
		inventoryHandler,
		orderHandler,
		checkoutHandler,
		shippingHandler,
		provider,
	)

	return server, nil
}
