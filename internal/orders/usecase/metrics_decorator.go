package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/metrics"
	"github.com/wingedsheep/eco-logique/internal/orders/domain"
)

const metricsDomain = "orders"

// orderUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type orderUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewOrderUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewOrderUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &orderUseCaseWithMetrics{next: useCase, metrics: m}
}

func (o *orderUseCaseWithMetrics) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.CreateOrder(ctx, input)
	metrics.Observe(ctx, o.metrics, metricsDomain, "create_order", start, err)
	return order, err
}

func (o *orderUseCaseWithMetrics) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.GetOrder(ctx, id)
	metrics.Observe(ctx, o.metrics, metricsDomain, "get_order", start, err)
	return order, err
}

func (o *orderUseCaseWithMetrics) ListOrdersByOwner(
	ctx context.Context,
	ownerID string,
	offset, limit int,
) ([]*domain.Order, error) {
	start := time.Now()
	orders, err := o.next.ListOrdersByOwner(ctx, ownerID, offset, limit)
	metrics.Observe(ctx, o.metrics, metricsDomain, "list_orders", start, err)
	return orders, err
}

func (o *orderUseCaseWithMetrics) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	target domain.OrderStatus,
) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.UpdateStatus(ctx, id, target)
	metrics.Observe(ctx, o.metrics, metricsDomain, "update_status", start, err)
	return order, err
}

func (o *orderUseCaseWithMetrics) MarkReserved(
	ctx context.Context,
	id uuid.UUID,
	reservations ReservationReader,
) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.MarkReserved(ctx, id, reservations)
	metrics.Observe(ctx, o.metrics, metricsDomain, "mark_reserved", start, err)
	return order, err
}

func (o *orderUseCaseWithMetrics) MarkPaid(ctx context.Context, id uuid.UUID, paymentID string) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.MarkPaid(ctx, id, paymentID)
	metrics.Observe(ctx, o.metrics, metricsDomain, "mark_paid", start, err)
	return order, err
}
