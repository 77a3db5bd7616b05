package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	"github.com/wingedsheep/eco-logique/internal/orders/domain"
	outboxUseCase "github.com/wingedsheep/eco-logique/internal/outbox/usecase"
	paymentDomain "github.com/wingedsheep/eco-logique/internal/payment/domain"
	shippingDomain "github.com/wingedsheep/eco-logique/internal/shipping/domain"
)

// Listeners advance orders in reaction to events from inventory, payment and shipping.
// Redelivered or out-of-order events are harmless: illegal transitions and unknown
// orders are logged and acknowledged.
type Listeners struct {
	orders       UseCase
	reservations ReservationReader
	logger       *slog.Logger
}

// NewListeners creates the order listeners.
func NewListeners(orders UseCase, reservations ReservationReader, logger *slog.Logger) *Listeners {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Listeners{orders: orders, reservations: reservations, logger: logger}
}

// Register subscribes every listener on bus.
func (l *Listeners) Register(bus *outboxUseCase.EventBus) {
	outboxUseCase.On(bus, l.OnStockReserved)
	outboxUseCase.On(bus, l.OnPaymentCompleted)
	outboxUseCase.On(bus, l.OnOrderShipped)
	outboxUseCase.On(bus, l.OnShipmentDelivered)
}

// OnStockReserved moves the correlated order to RESERVED once its active reservations
// cover every line. Events for earlier lines of a checkout still in progress, or for
// reservations already released, leave the order alone. Reservations for other
// correlation ids are ignored.
func (l *Listeners) OnStockReserved(ctx context.Context, event inventoryDomain.StockReserved) error {
	orderID, err := uuid.Parse(event.CorrelationID)
	if err != nil {
		l.logger.Debug("reservation not correlated with an order",
			slog.String("correlation_id", event.CorrelationID))
		return nil
	}

	_, err = l.orders.MarkReserved(ctx, orderID, l.reservations)
	return l.acknowledge(err, orderID, event.EventType())
}

// OnPaymentCompleted marks the order PAID with the payment id.
func (l *Listeners) OnPaymentCompleted(ctx context.Context, event paymentDomain.PaymentCompleted) error {
	_, err := l.orders.MarkPaid(ctx, event.OrderID, event.PaymentID.String())
	return l.acknowledge(err, event.OrderID, event.EventType())
}

// OnOrderShipped moves the order to SHIPPED.
func (l *Listeners) OnOrderShipped(ctx context.Context, event shippingDomain.OrderShipped) error {
	_, err := l.orders.UpdateStatus(ctx, event.OrderID, domain.OrderStatusShipped)
	return l.acknowledge(err, event.OrderID, event.EventType())
}

// OnShipmentDelivered moves the order to DELIVERED.
func (l *Listeners) OnShipmentDelivered(ctx context.Context, event shippingDomain.ShipmentDelivered) error {
	_, err := l.orders.UpdateStatus(ctx, event.OrderID, domain.OrderStatusDelivered)
	return l.acknowledge(err, event.OrderID, event.EventType())
}

// acknowledge swallows the errors a redelivered event is expected to produce.
func (l *Listeners) acknowledge(err error, orderID uuid.UUID, eventType string) error {
	if err == nil {
		return nil
	}

	var transitionErr *domain.InvalidTransitionError
	switch {
	case apperrors.As(err, &transitionErr):
		l.logger.Info("ignoring event for order in incompatible status",
			slog.String("order_id", orderID.String()),
			slog.String("event_type", eventType),
			slog.String("from", string(transitionErr.From)),
			slog.String("to", string(transitionErr.To)),
		)
		return nil
	case apperrors.Is(err, domain.ErrReservationIncomplete):
		l.logger.Debug("reservations do not cover order, not advancing",
			slog.String("order_id", orderID.String()),
			slog.String("event_type", eventType),
		)
		return nil
	case apperrors.Is(err, domain.ErrOrderNotFound):
		l.logger.Warn("ignoring event for unknown order",
			slog.String("order_id", orderID.String()),
			slog.String("event_type", eventType),
		)
		return nil
	default:
		return err
	}
}
