package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/metrics"
	"github.com/wingedsheep/eco-logique/internal/shipping/domain"
)

type shippingUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewShippingUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewShippingUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &shippingUseCaseWithMetrics{next: useCase, metrics: m}
}

func (s *shippingUseCaseWithMetrics) Ship(ctx context.Context, input ShipInput) (*domain.Shipment, error) {
	start := time.Now()
	shipment, err := s.next.Ship(ctx, input)
	metrics.Observe(ctx, s.metrics, "shipping", "ship", start, err)
	return shipment, err
}

func (s *shippingUseCaseWithMetrics) MarkDelivered(ctx context.Context, shipmentID uuid.UUID) (*domain.Shipment, error) {
	start := time.Now()
	shipment, err := s.next.MarkDelivered(ctx, shipmentID)
	metrics.Observe(ctx, s.metrics, "shipping", "mark_delivered", start, err)
	return shipment, err
}

func (s *shippingUseCaseWithMetrics) GetShipment(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	start := time.Now()
	shipment, err := s.next.GetShipment(ctx, id)
	metrics.Observe(ctx, s.metrics, "shipping", "get_shipment", start, err)
	return shipment, err
}
