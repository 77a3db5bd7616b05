package app

import (
	"fmt"

	checkoutHTTP "github.com/wingedsheep/eco-logique/internal/checkout/http"
	checkoutUseCase "github.com/wingedsheep/eco-logique/internal/checkout/usecase"
	"github.com/wingedsheep/eco-logique/internal/database"
	ordersHTTP "github.com/wingedsheep/eco-logique/internal/orders/http"
	ordersRepository "github.com/wingedsheep/eco-logique/internal/orders/repository"
	ordersUseCase "github.com/wingedsheep/eco-logique/internal/orders/usecase"
)

// OrderRepository returns the order repository for the configured driver.
func (c *Container) OrderRepository() (ordersUseCase.OrderRepository, error) {
	var err error
	c.orderRepositoryInit.Do(func() {
		c.orderRepository, err = c.initOrderRepository()
		if err != nil {
			c.setInitError("orderRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("orderRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.orderRepository, nil
}

// OrderUseCase returns the order use case.
func (c *Container) OrderUseCase() (ordersUseCase.UseCase, error) {
	var err error
	c.orderUseCaseInit.Do(func() {
		c.orderUseCase, err = c.initOrderUseCase()
		if err != nil {
			c.setInitError("orderUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("orderUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.orderUseCase, nil
}

// OrderHandler returns the HTTP handler for order queries.
func (c *Container) OrderHandler() (*ordersHTTP.OrderHandler, error) {
	var err error
	c.orderHandlerInit.Do(func() {
		var useCase ordersUseCase.UseCase
		useCase, err = c.OrderUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get order use case for order handler: %w", err)
			c.setInitError("orderHandler", err)
			return
		}
		c.orderHandler = ordersHTTP.NewOrderHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("orderHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.orderHandler, nil
}

// CheckoutUseCase returns the checkout saga.
func (c *Container) CheckoutUseCase() (checkoutUseCase.UseCase, error) {
	var err error
	c.checkoutUseCaseInit.Do(func() {
		c.checkoutUseCase, err = c.initCheckoutUseCase()
		if err != nil {
			c.setInitError("checkoutUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("checkoutUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.checkoutUseCase, nil
}

// CheckoutHandler returns the HTTP handler for checkout, payment retry and cancellation.
func (c *Container) CheckoutHandler() (*checkoutHTTP.CheckoutHandler, error) {
	var err error
	c.checkoutHandlerInit.Do(func() {
		var useCase checkoutUseCase.UseCase
		useCase, err = c.CheckoutUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get checkout use case for checkout handler: %w", err)
			c.setInitError("checkoutHandler", err)
			return
		}
		c.checkoutHandler = checkoutHTTP.NewCheckoutHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("checkoutHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.checkoutHandler, nil
}

func (c *Container) initOrderRepository() (ordersUseCase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == database.DialectMySQL {
		return ordersRepository.NewMySQLOrderRepository(db), nil
	}
	return ordersRepository.NewPostgreSQLOrderRepository(db), nil
}

func (c *Container) initOrderUseCase() (ordersUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for order use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for order use case: %w", err)
	}

	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for order use case: %w", err)
	}

	baseUseCase := ordersUseCase.NewOrderUseCase(txManager, orderRepo, publisher)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for order use case: %w", err)
		}
		return ordersUseCase.NewOrderUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initCheckoutUseCase() (checkoutUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for checkout use case: %w", err)
	}

	cartUseCase, err := c.CartUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart use case for checkout use case: %w", err)
	}

	inventoryUseCase, err := c.InventoryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory use case for checkout use case: %w", err)
	}

	orderUseCase, err := c.OrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for checkout use case: %w", err)
	}

	paymentUseCase, err := c.PaymentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment use case for checkout use case: %w", err)
	}

	baseUseCase := checkoutUseCase.NewCheckoutUseCase(
		checkoutUseCase.Config{Currency: c.config.Currency},
		txManager,
		cartUseCase,
		inventoryUseCase,
		orderUseCase,
		paymentUseCase,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for checkout use case: %w", err)
		}
		return checkoutUseCase.NewCheckoutUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
