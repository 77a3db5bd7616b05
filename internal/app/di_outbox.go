package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wingedsheep/eco-logique/internal/database"
	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
	ordersUseCase "github.com/wingedsheep/eco-logique/internal/orders/usecase"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
	"github.com/wingedsheep/eco-logique/internal/outbox/relay"
	outboxRepository "github.com/wingedsheep/eco-logique/internal/outbox/repository"
	outboxUseCase "github.com/wingedsheep/eco-logique/internal/outbox/usecase"
	paymentDomain "github.com/wingedsheep/eco-logique/internal/payment/domain"
	shippingDomain "github.com/wingedsheep/eco-logique/internal/shipping/domain"
)

// EventRegistry returns the registry holding a decoder for every domain event type.
func (c *Container) EventRegistry() *outboxDomain.Registry {
	c.eventRegistryInit.Do(func() {
		c.eventRegistry = newEventRegistry()
	})
	return c.eventRegistry
}

func newEventRegistry() *outboxDomain.Registry {
	registry := outboxDomain.NewRegistry()
	outboxDomain.MustRegisterEvent[ordersDomain.OrderCreated](registry)
	outboxDomain.MustRegisterEvent[ordersDomain.OrderStatusChanged](registry)
	outboxDomain.MustRegisterEvent[inventoryDomain.StockReserved](registry)
	outboxDomain.MustRegisterEvent[inventoryDomain.ReservationReleased](registry)
	outboxDomain.MustRegisterEvent[paymentDomain.PaymentCompleted](registry)
	outboxDomain.MustRegisterEvent[paymentDomain.PaymentFailed](registry)
	outboxDomain.MustRegisterEvent[shippingDomain.OrderShipped](registry)
	outboxDomain.MustRegisterEvent[shippingDomain.ShipmentDelivered](registry)
	return registry
}

// EventRelay returns the external broker relay, or nil when no relay driver is set.
func (c *Container) EventRelay() (relay.Relay, error) {
	var err error
	c.eventRelayInit.Do(func() {
		c.eventRelay, err = relay.Open(
			context.Background(),
			c.config.OutboxRelayDriver,
			c.config.OutboxRelayURL,
			c.config.OutboxRelayStream,
		)
		if err != nil {
			err = fmt.Errorf("failed to open outbox relay: %w", err)
			c.setInitError("eventRelay", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("eventRelay"); storedErr != nil {
		return nil, storedErr
	}
	return c.eventRelay, nil
}

// EventBus returns the in-process bus with the order listeners and the relay subscribed.
func (c *Container) EventBus() (*outboxUseCase.EventBus, error) {
	var err error
	c.eventBusInit.Do(func() {
		c.eventBus, err = c.initEventBus()
		if err != nil {
			c.setInitError("eventBus", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("eventBus"); storedErr != nil {
		return nil, storedErr
	}
	return c.eventBus, nil
}

// OutboxRepository returns the outbox event repository for the configured driver.
func (c *Container) OutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	var err error
	c.outboxRepositoryInit.Do(func() {
		c.outboxRepository, err = c.initOutboxRepository()
		if err != nil {
			c.setInitError("outboxRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("outboxRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.outboxRepository, nil
}

// Publisher returns the transactional outbox publisher shared by every module.
func (c *Container) Publisher() (outboxUseCase.Publisher, error) {
	var err error
	c.publisherInit.Do(func() {
		var outboxRepo outboxUseCase.OutboxEventRepository
		outboxRepo, err = c.OutboxRepository()
		if err != nil {
			err = fmt.Errorf("failed to get outbox repository for publisher: %w", err)
			c.setInitError("publisher", err)
			return
		}
		c.publisher = outboxUseCase.NewPublisher(outboxRepo, c.EventRegistry())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("publisher"); storedErr != nil {
		return nil, storedErr
	}
	return c.publisher, nil
}

// OutboxUseCase returns the outbox processor.
func (c *Container) OutboxUseCase() (outboxUseCase.UseCase, error) {
	var err error
	c.outboxUseCaseInit.Do(func() {
		c.outboxUseCase, err = c.initOutboxUseCase()
		if err != nil {
			c.setInitError("outboxUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("outboxUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.outboxUseCase, nil
}

// MaintenanceUseCase returns the outbox cleanup and requeue operations.
func (c *Container) MaintenanceUseCase() (outboxUseCase.MaintenanceUseCase, error) {
	var err error
	c.maintenanceUseCaseInit.Do(func() {
		c.maintenanceUseCase, err = c.initMaintenanceUseCase()
		if err != nil {
			c.setInitError("maintenanceUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("maintenanceUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.maintenanceUseCase, nil
}

func (c *Container) initEventBus() (*outboxUseCase.EventBus, error) {
	orderUseCase, err := c.OrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for event bus: %w", err)
	}

	inventoryUseCase, err := c.InventoryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory use case for event bus: %w", err)
	}

	eventRelay, err := c.EventRelay()
	if err != nil {
		return nil, err
	}

	logger := c.Logger()
	bus := outboxUseCase.NewEventBus()
	ordersUseCase.NewListeners(orderUseCase, inventoryUseCase, logger).Register(bus)

	if eventRelay != nil {
		bus.SubscribeAll(eventRelay.Forward)
		logger.Info("outbox relay enabled",
			slog.String("driver", c.config.OutboxRelayDriver),
			slog.String("stream", c.config.OutboxRelayStream))
	}

	return bus, nil
}

func (c *Container) initOutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	switch dialect {
	case database.DialectMySQL:
		return outboxRepository.NewMySQLOutboxEventRepository(db), nil
	default:
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
	}
}

func (c *Container) initOutboxUseCase() (outboxUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}

	bus, err := c.EventBus()
	if err != nil {
		return nil, fmt.Errorf("failed to get event bus for outbox use case: %w", err)
	}

	outboxMetrics, err := c.OutboxMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox metrics for outbox use case: %w", err)
	}

	logger := c.Logger()
	dispatcher := outboxUseCase.NewEventDispatcher(c.EventRegistry(), bus, logger)

	return outboxUseCase.NewOutboxUseCase(
		outboxUseCase.Config{
			Interval:   c.config.OutboxPollInterval,
			BatchSize:  c.config.OutboxBatchSize,
			MaxRetries: c.config.OutboxMaxRetries,
		},
		txManager,
		outboxRepo,
		dispatcher,
		outboxMetrics,
		logger,
	), nil
}

func (c *Container) initMaintenanceUseCase() (outboxUseCase.MaintenanceUseCase, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for maintenance use case: %w", err)
	}

	outboxMetrics, err := c.OutboxMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox metrics for maintenance use case: %w", err)
	}

	return outboxUseCase.NewMaintenanceUseCase(
		outboxUseCase.MaintenanceConfig{
			RetentionDays:   c.config.OutboxRetentionDays,
			CleanupInterval: c.config.OutboxCleanupInterval,
		},
		outboxRepo,
		outboxMetrics,
		c.Logger(),
	), nil
}
