package app

import (
	"fmt"

	"github.com/wingedsheep/eco-logique/internal/database"
	shippingHTTP "github.com/wingedsheep/eco-logique/internal/shipping/http"
	shippingRepository "github.com/wingedsheep/eco-logique/internal/shipping/repository"
	shippingUseCase "github.com/wingedsheep/eco-logique/internal/shipping/usecase"
)

// ShipmentRepository returns the shipment repository for the configured driver.
func (c *Container) ShipmentRepository() (shippingUseCase.ShipmentRepository, error) {
	var err error
	c.shipmentRepositoryInit.Do(func() {
		c.shipmentRepository, err = c.initShipmentRepository()
		if err != nil {
			c.setInitError("shipmentRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("shipmentRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.shipmentRepository, nil
}

// ShippingUseCase returns the shipping use case.
func (c *Container) ShippingUseCase() (shippingUseCase.UseCase, error) {
	var err error
	c.shippingUseCaseInit.Do(func() {
		c.shippingUseCase, err = c.initShippingUseCase()
		if err != nil {
			c.setInitError("shippingUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("shippingUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.shippingUseCase, nil
}

// ShippingHandler returns the HTTP handler for shipments.
func (c *Container) ShippingHandler() (*shippingHTTP.ShippingHandler, error) {
	var err error
	c.shippingHandlerInit.Do(func() {
		var useCase shippingUseCase.UseCase
		useCase, err = c.ShippingUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get shipping use case for shipping handler: %w", err)
			c.setInitError("shippingHandler", err)
			return
		}
		c.shippingHandler = shippingHTTP.NewShippingHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("shippingHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.shippingHandler, nil
}

func (c *Container) initShipmentRepository() (shippingUseCase.ShipmentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for shipment repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == database.DialectMySQL {
		return shippingRepository.NewMySQLShipmentRepository(db), nil
	}
	return shippingRepository.NewPostgreSQLShipmentRepository(db), nil
}

func (c *Container) initShippingUseCase() (shippingUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for shipping use case: %w", err)
	}

	shipmentRepo, err := c.ShipmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment repository for shipping use case: %w", err)
	}

	orderUseCase, err := c.OrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for shipping use case: %w", err)
	}

	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for shipping use case: %w", err)
	}

	baseUseCase := shippingUseCase.NewShippingUseCase(txManager, shipmentRepo, orderUseCase, publisher)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for shipping use case: %w", err)
		}
		return shippingUseCase.NewShippingUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
