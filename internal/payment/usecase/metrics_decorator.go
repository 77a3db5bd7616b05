package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wingedsheep/eco-logique/internal/metrics"
	"github.com/wingedsheep/eco-logique/internal/payment/domain"
)

const metricsDomain = "payment"

type paymentUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewPaymentUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewPaymentUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &paymentUseCaseWithMetrics{next: useCase, metrics: m}
}

func (p *paymentUseCaseWithMetrics) ProcessPayment(
	ctx context.Context,
	input ProcessPaymentInput,
) (*domain.Payment, error) {
	start := time.Now()
	payment, err := p.next.ProcessPayment(ctx, input)
	metrics.Observe(ctx, p.metrics, metricsDomain, "process_payment", start, err)
	return payment, err
}

func (p *paymentUseCaseWithMetrics) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	start := time.Now()
	payment, err := p.next.GetPayment(ctx, id)
	metrics.Observe(ctx, p.metrics, metricsDomain, "get_payment", start, err)
	return payment, err
}

func (p *paymentUseCaseWithMetrics) ListPaymentsByOrder(
	ctx context.Context,
	orderID uuid.UUID,
) ([]*domain.Payment, error) {
	start := time.Now()
	payments, err := p.next.ListPaymentsByOrder(ctx, orderID)
	metrics.Observe(ctx, p.metrics, metricsDomain, "list_payments", start, err)
	return payments, err
}
