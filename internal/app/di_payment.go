package app

import (
	"fmt"

	"github.com/wingedsheep/eco-logique/internal/database"
	"github.com/wingedsheep/eco-logique/internal/payment/gateway"
	paymentRepository "github.com/wingedsheep/eco-logique/internal/payment/repository"
	paymentUseCase "github.com/wingedsheep/eco-logique/internal/payment/usecase"
)

// PaymentRepository returns the payment repository for the configured driver.
func (c *Container) PaymentRepository() (paymentUseCase.PaymentRepository, error) {
	var err error
	c.paymentRepositoryInit.Do(func() {
		c.paymentRepository, err = c.initPaymentRepository()
		if err != nil {
			c.setInitError("paymentRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("paymentRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.paymentRepository, nil
}

// PaymentUseCase returns the payment use case backed by the simulated gateway.
func (c *Container) PaymentUseCase() (paymentUseCase.UseCase, error) {
	var err error
	c.paymentUseCaseInit.Do(func() {
		c.paymentUseCase, err = c.initPaymentUseCase()
		if err != nil {
			c.setInitError("paymentUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("paymentUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.paymentUseCase, nil
}

func (c *Container) initPaymentRepository() (paymentUseCase.PaymentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for payment repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == database.DialectMySQL {
		return paymentRepository.NewMySQLPaymentRepository(db), nil
	}
	return paymentRepository.NewPostgreSQLPaymentRepository(db), nil
}

func (c *Container) initPaymentUseCase() (paymentUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for payment use case: %w", err)
	}

	paymentRepo, err := c.PaymentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment repository for payment use case: %w", err)
	}

	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for payment use case: %w", err)
	}

	baseUseCase := paymentUseCase.NewPaymentUseCase(
		paymentUseCase.Config{
			MaxAttempts: c.config.PaymentMaxAttempts,
			Backoff:     c.config.PaymentRetryBackoff,
		},
		txManager,
		paymentRepo,
		gateway.NewSimulatedGateway(),
		publisher,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for payment use case: %w", err)
		}
		return paymentUseCase.NewPaymentUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
