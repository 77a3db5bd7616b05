package app

import (
	"fmt"

	"github.com/wingedsheep/eco-logique/internal/database"
	inventoryHTTP "github.com/wingedsheep/eco-logique/internal/inventory/http"
	inventoryRepository "github.com/wingedsheep/eco-logique/internal/inventory/repository"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
)

// InventoryItemRepository returns the per-warehouse stock repository.
func (c *Container) InventoryItemRepository() (inventoryUseCase.InventoryItemRepository, error) {
	var err error
	c.inventoryItemRepositoryInit.Do(func() {
		c.inventoryItemRepository, err = c.initInventoryItemRepository()
		if err != nil {
			c.setInitError("inventoryItemRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("inventoryItemRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.inventoryItemRepository, nil
}

// ReservationRepository returns the stock reservation repository.
func (c *Container) ReservationRepository() (inventoryUseCase.ReservationRepository, error) {
	var err error
	c.reservationRepositoryInit.Do(func() {
		c.reservationRepository, err = c.initReservationRepository()
		if err != nil {
			c.setInitError("reservationRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("reservationRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.reservationRepository, nil
}

// InventoryUseCase returns the inventory ledger.
func (c *Container) InventoryUseCase() (inventoryUseCase.UseCase, error) {
	var err error
	c.inventoryUseCaseInit.Do(func() {
		c.inventoryUseCase, err = c.initInventoryUseCase()
		if err != nil {
			c.setInitError("inventoryUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("inventoryUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.inventoryUseCase, nil
}

// InventoryHandler returns the HTTP handler for stock levels and reservations.
func (c *Container) InventoryHandler() (*inventoryHTTP.InventoryHandler, error) {
	var err error
	c.inventoryHandlerInit.Do(func() {
		var useCase inventoryUseCase.UseCase
		useCase, err = c.InventoryUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get inventory use case for inventory handler: %w", err)
			c.setInitError("inventoryHandler", err)
			return
		}
		c.inventoryHandler = inventoryHTTP.NewInventoryHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("inventoryHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.inventoryHandler, nil
}

func (c *Container) initInventoryItemRepository() (inventoryUseCase.InventoryItemRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for inventory item repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == database.DialectMySQL {
		return inventoryRepository.NewMySQLInventoryItemRepository(db), nil
	}
	return inventoryRepository.NewPostgreSQLInventoryItemRepository(db), nil
}

func (c *Container) initReservationRepository() (inventoryUseCase.ReservationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for reservation repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == database.DialectMySQL {
		return inventoryRepository.NewMySQLReservationRepository(db), nil
	}
	return inventoryRepository.NewPostgreSQLReservationRepository(db), nil
}

func (c *Container) initInventoryUseCase() (inventoryUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for inventory use case: %w", err)
	}

	itemRepo, err := c.InventoryItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item repository for inventory use case: %w", err)
	}

	reservationRepo, err := c.ReservationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation repository for inventory use case: %w", err)
	}

	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for inventory use case: %w", err)
	}

	baseUseCase := inventoryUseCase.NewInventoryUseCase(txManager, itemRepo, reservationRepo, publisher)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for inventory use case: %w", err)
		}
		return inventoryUseCase.NewInventoryUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
