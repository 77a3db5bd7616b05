package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
	"github.com/wingedsheep/eco-logique/internal/metrics"
)

const metricsDomain = "inventory"

// inventoryUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type inventoryUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewInventoryUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewInventoryUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &inventoryUseCaseWithMetrics{next: useCase, metrics: m}
}

func (i *inventoryUseCaseWithMetrics) CheckStock(ctx context.Context, productID string) (*domain.StockLevel, error) {
	start := time.Now()
	level, err := i.next.CheckStock(ctx, productID)
	metrics.Observe(ctx, i.metrics, metricsDomain, "check_stock", start, err)
	return level, err
}

func (i *inventoryUseCaseWithMetrics) ReserveStock(
	ctx context.Context,
	input ReserveStockInput,
) ([]*domain.StockReservation, error) {
	start := time.Now()
	reservations, err := i.next.ReserveStock(ctx, input)
	metrics.Observe(ctx, i.metrics, metricsDomain, "reserve_stock", start, err)
	return reservations, err
}

func (i *inventoryUseCaseWithMetrics) ReleaseReservation(ctx context.Context, reservationID uuid.UUID) error {
	start := time.Now()
	err := i.next.ReleaseReservation(ctx, reservationID)
	metrics.Observe(ctx, i.metrics, metricsDomain, "release_reservation", start, err)
	return err
}

func (i *inventoryUseCaseWithMetrics) ListActiveReservations(
	ctx context.Context,
	correlationID string,
) ([]*domain.StockReservation, error) {
	start := time.Now()
	reservations, err := i.next.ListActiveReservations(ctx, correlationID)
	metrics.Observe(ctx, i.metrics, metricsDomain, "list_active_reservations", start, err)
	return reservations, err
}

func (i *inventoryUseCaseWithMetrics) ReleaseByCorrelation(ctx context.Context, correlationID string) (int, error) {
	start := time.Now()
	count, err := i.next.ReleaseByCorrelation(ctx, correlationID)
	metrics.Observe(ctx, i.metrics, metricsDomain, "release_by_correlation", start, err)
	return count, err
}

func (i *inventoryUseCaseWithMetrics) SetStock(ctx context.Context, input SetStockInput) (*domain.InventoryItem, error) {
	start := time.Now()
	item, err := i.next.SetStock(ctx, input)
	metrics.Observe(ctx, i.metrics, metricsDomain, "set_stock", start, err)
	return item, err
}

func (i *inventoryUseCaseWithMetrics) ProductExists(ctx context.Context, productID string) (bool, error) {
	start := time.Now()
	exists, err := i.next.ProductExists(ctx, productID)
	metrics.Observe(ctx, i.metrics, metricsDomain, "product_exists", start, err)
	return exists, err
}
