package app

import (
	"fmt"

	cartHTTP "github.com/wingedsheep/eco-logique/internal/cart/http"
	cartRepository "github.com/wingedsheep/eco-logique/internal/cart/repository"
	cartUseCase "github.com/wingedsheep/eco-logique/internal/cart/usecase"
)

// Supported cart stores.
const (
	CartStoreMemory = "memory"
	CartStoreRedis  = "redis"
)

// CartRepository returns the cart store selected by CART_STORE.
func (c *Container) CartRepository() (cartUseCase.CartRepository, error) {
	var err error
	c.cartRepositoryInit.Do(func() {
		c.cartRepository, err = c.initCartRepository()
		if err != nil {
			c.setInitError("cartRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cartRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.cartRepository, nil
}

// CartUseCase returns the cart use case.
func (c *Container) CartUseCase() (cartUseCase.UseCase, error) {
	var err error
	c.cartUseCaseInit.Do(func() {
		c.cartUseCase, err = c.initCartUseCase()
		if err != nil {
			c.setInitError("cartUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cartUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.cartUseCase, nil
}

// CartHandler returns the HTTP handler for carts.
func (c *Container) CartHandler() (*cartHTTP.CartHandler, error) {
	var err error
	c.cartHandlerInit.Do(func() {
		var useCase cartUseCase.UseCase
		useCase, err = c.CartUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get cart use case for cart handler: %w", err)
			c.setInitError("cartHandler", err)
			return
		}
		c.cartHandler = cartHTTP.NewCartHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cartHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.cartHandler, nil
}

func (c *Container) initCartRepository() (cartUseCase.CartRepository, error) {
	switch c.config.CartStore {
	case CartStoreMemory, "":
		return cartRepository.NewMemoryCartRepository(), nil
	case CartStoreRedis:
		return cartRepository.NewRedisCartRepository(c.RedisClient(), c.config.CartTTL), nil
	default:
		return nil, fmt.Errorf("unsupported cart store: %s", c.config.CartStore)
	}
}

func (c *Container) initCartUseCase() (cartUseCase.UseCase, error) {
	cartRepo, err := c.CartRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart repository for cart use case: %w", err)
	}

	inventoryUseCase, err := c.InventoryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory use case for cart use case: %w", err)
	}

	baseUseCase := cartUseCase.NewCartUseCase(cartRepo, inventoryUseCase)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for cart use case: %w", err)
		}
		return cartUseCase.NewCartUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
