package usecase

import (
	"context"
	"time"

	"github.com/wingedsheep/eco-logique/internal/cart/domain"
	"github.com/wingedsheep/eco-logique/internal/metrics"
)

const metricsDomain = "cart"

type cartUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewCartUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewCartUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &cartUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *cartUseCaseWithMetrics) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	start := time.Now()
	cart, err := c.next.GetCart(ctx, userID)
	metrics.Observe(ctx, c.metrics, metricsDomain, "get_cart", start, err)
	return cart, err
}

func (c *cartUseCaseWithMetrics) AddItem(ctx context.Context, input AddItemInput) (*domain.Cart, error) {
	start := time.Now()
	cart, err := c.next.AddItem(ctx, input)
	metrics.Observe(ctx, c.metrics, metricsDomain, "add_item", start, err)
	return cart, err
}

func (c *cartUseCaseWithMetrics) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	start := time.Now()
	cart, err := c.next.RemoveItem(ctx, userID, productID)
	metrics.Observe(ctx, c.metrics, metricsDomain, "remove_item", start, err)
	return cart, err
}

func (c *cartUseCaseWithMetrics) ClearCart(ctx context.Context, userID string) error {
	start := time.Now()
	err := c.next.ClearCart(ctx, userID)
	metrics.Observe(ctx, c.metrics, metricsDomain, "clear_cart", start, err)
	return err
}
