package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/checkout/domain"
	"github.com/wingedsheep/eco-logique/internal/metrics"
	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
)

type checkoutUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewCheckoutUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewCheckoutUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &checkoutUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *checkoutUseCaseWithMetrics) Checkout(ctx context.Context, userID, paymentMethod string) (*domain.Result, error) {
	start := time.Now()
	result, err := c.next.Checkout(ctx, userID, paymentMethod)
	metrics.Observe(ctx, c.metrics, "checkout", "checkout", start, err)
	return result, err
}

func (c *checkoutUseCaseWithMetrics) RetryPayment(
	ctx context.Context,
	orderID uuid.UUID,
	userID, paymentMethod string,
) (*domain.Result, error) {
	start := time.Now()
	result, err := c.next.RetryPayment(ctx, orderID, userID, paymentMethod)
	metrics.Observe(ctx, c.metrics, "checkout", "retry_payment", start, err)
	return result, err
}

func (c *checkoutUseCaseWithMetrics) CancelOrder(
	ctx context.Context,
	orderID uuid.UUID,
	userID string,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := c.next.CancelOrder(ctx, orderID, userID)
	metrics.Observe(ctx, c.metrics, "checkout", "cancel_order", start, err)
	return order, err
}
