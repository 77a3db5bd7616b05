package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cartDomain "github.com/wingedsheep/eco-logique/internal/cart/domain"
	"github.com/wingedsheep/eco-logique/internal/checkout/domain"
	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
	ordersUseCase "github.com/wingedsheep/eco-logique/internal/orders/usecase"
	paymentDomain "github.com/wingedsheep/eco-logique/internal/payment/domain"
	paymentUseCase "github.com/wingedsheep/eco-logique/internal/payment/usecase"
	appValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

type checkoutUseCase struct {
	config    Config
	txManager database.TxManager
	carts     CartService
	inventory InventoryService
	orders    OrderService
	payments  PaymentService
	logger    *slog.Logger
}

// NewCheckoutUseCase creates the checkout UseCase.
func NewCheckoutUseCase(
	config Config,
	txManager database.TxManager,
	carts CartService,
	inventory InventoryService,
	orders OrderService,
	payments PaymentService,
	logger *slog.Logger,
) UseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &checkoutUseCase{
		config:    config,
		txManager: txManager,
		carts:     carts,
		inventory: inventory,
		orders:    orders,
		payments:  payments,
		logger:    logger,
	}
}

func validatePaymentMethod(paymentMethod string) error {
	return appValidation.WrapValidationError(validation.Validate(paymentMethod,
		validation.Required.Error("payment method is required"), appValidation.NotBlank))
}

func (uc *checkoutUseCase) Checkout(ctx context.Context, userID, paymentMethod string) (*domain.Result, error) {
	if err := validatePaymentMethod(paymentMethod); err != nil {
		return nil, err
	}

	cart, err := uc.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	if err := uc.precheckStock(ctx, cart.Items); err != nil {
		return nil, err
	}

	order, err := uc.createOrder(ctx, cart)
	if err != nil {
		return nil, err
	}
	logger := uc.logger.With(slog.String("order_id", order.ID.String()), slog.String("user_id", userID))

	if err := uc.reserve(ctx, logger, order); err != nil {
		return nil, err
	}

	if err := uc.awaitPayment(ctx, order.ID); err != nil {
		// Payment was never attempted, so nothing should keep the stock.
		uc.releaseByCorrelation(ctx, logger, order.ID)
		return nil, err
	}

	result, err := uc.pay(ctx, logger, order, paymentMethod)
	if err != nil {
		return nil, err
	}

	if err := uc.carts.ClearCart(ctx, userID); err != nil {
		logger.Error("failed to clear cart after checkout", slog.Any("error", err))
	}

	logger.Info("checkout completed", slog.String("payment_id", result.PaymentID.String()))
	return result, nil
}

// precheckStock fails on the first line whose product cannot cover the quantity.
// Reservation remains the authoritative check.
func (uc *checkoutUseCase) precheckStock(ctx context.Context, items []cartDomain.CartItem) error {
	for _, item := range items {
		level, err := uc.inventory.CheckStock(ctx, item.ProductID)
		if apperrors.Is(err, inventoryDomain.ErrProductNotFound) {
			return &inventoryDomain.InsufficientStockError{ProductID: item.ProductID, Requested: item.Quantity}
		}
		if err != nil {
			return err
		}
		if level.TotalAvailable < item.Quantity {
			return &inventoryDomain.InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: level.TotalAvailable,
			}
		}
	}
	return nil
}

func (uc *checkoutUseCase) createOrder(ctx context.Context, cart *cartDomain.Cart) (*ordersDomain.Order, error) {
	lines := make([]ordersUseCase.CreateOrderLineInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, ordersUseCase.CreateOrderLineInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	order, err := uc.orders.CreateOrder(ctx, ordersUseCase.CreateOrderInput{
		OwnerID:  cart.UserID,
		Currency: uc.config.Currency,
		Lines:    lines,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			return nil, err
		}
		uc.logger.Error("failed to create order", slog.String("user_id", cart.UserID), slog.Any("error", err))
		return nil, domain.ErrOrderCreationFailed
	}
	return order, nil
}

// reserve reserves every line under the order id. On failure it releases what this
// call acquired and returns the mapped error.
func (uc *checkoutUseCase) reserve(ctx context.Context, logger *slog.Logger, order *ordersDomain.Order) error {
	var acquired []*inventoryDomain.StockReservation

	for _, line := range order.Lines {
		reservations, err := uc.inventory.ReserveStock(ctx, inventoryUseCase.ReserveStockInput{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			CorrelationID: order.ID.String(),
		})
		if err == nil {
			acquired = append(acquired, reservations...)
			continue
		}

		for _, reservation := range acquired {
			if releaseErr := uc.inventory.ReleaseReservation(ctx, reservation.ID); releaseErr != nil {
				logger.Error("failed to release reservation",
					slog.String("reservation_id", reservation.ID.String()),
					slog.Any("error", releaseErr),
				)
			}
		}

		var insufficient *inventoryDomain.InsufficientStockError
		switch {
		case apperrors.As(err, &insufficient):
			return insufficient
		case apperrors.Is(err, inventoryDomain.ErrProductNotFound):
			return &inventoryDomain.InsufficientStockError{ProductID: line.ProductID, Requested: line.Quantity}
		case apperrors.Is(err, apperrors.ErrInvalidInput):
			return err
		default:
			logger.Error("failed to reserve stock", slog.String("product_id", line.ProductID), slog.Any("error", err))
			return inventoryDomain.ErrInventoryUnavailable
		}
	}
	return nil
}

// awaitPayment moves a freshly reserved order to PAYMENT_PENDING. The inventory.reserved
// listener may have moved it to RESERVED first; that duplicate is the only one tolerated.
func (uc *checkoutUseCase) awaitPayment(ctx context.Context, orderID uuid.UUID) error {
	_, err := uc.orders.UpdateStatus(ctx, orderID, ordersDomain.OrderStatusReserved)
	var transitionErr *ordersDomain.InvalidTransitionError
	if apperrors.As(err, &transitionErr) &&
		transitionErr.From == ordersDomain.OrderStatusReserved &&
		transitionErr.To == ordersDomain.OrderStatusReserved {
		err = nil
	}
	if err != nil {
		return err
	}
	_, err = uc.orders.UpdateStatus(ctx, orderID, ordersDomain.OrderStatusPaymentPending)
	return err
}

// pay charges the order's grand total and marks it PAID. Any payment error becomes a
// PaymentFailedError; nothing is compensated.
func (uc *checkoutUseCase) pay(
	ctx context.Context,
	logger *slog.Logger,
	order *ordersDomain.Order,
	paymentMethod string,
) (*domain.Result, error) {
	payment, err := uc.payments.ProcessPayment(ctx, paymentUseCase.ProcessPaymentInput{
		OrderID:       order.ID,
		Amount:        order.Totals.GrandTotal,
		Currency:      order.Totals.Currency,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		failed := &domain.PaymentFailedError{OrderID: order.ID, Reason: err.Error()}
		var declined *paymentDomain.PaymentDeclinedError
		if apperrors.As(err, &declined) {
			failed.Reason = declined.Reason
		}
		if payment != nil {
			failed.PaymentID = &payment.ID
		}
		logger.Warn("payment failed", slog.String("reason", failed.Reason))
		return nil, failed
	}

	paid, err := uc.orders.MarkPaid(ctx, order.ID, payment.ID.String())
	if err != nil {
		// The charge went through; payment.completed will bring the order to PAID.
		logger.Error("failed to mark order paid", slog.String("payment_id", payment.ID.String()), slog.Any("error", err))
		return &domain.Result{
			OrderID:       order.ID,
			OrderStatus:   ordersDomain.OrderStatusPaymentPending,
			PaymentID:     payment.ID,
			PaymentStatus: payment.Status,
		}, nil
	}

	return &domain.Result{
		OrderID:       paid.ID,
		OrderStatus:   paid.Status,
		PaymentID:     payment.ID,
		PaymentStatus: payment.Status,
	}, nil
}

func (uc *checkoutUseCase) releaseByCorrelation(ctx context.Context, logger *slog.Logger, orderID uuid.UUID) {
	if _, err := uc.inventory.ReleaseByCorrelation(ctx, orderID.String()); err != nil {
		logger.Error("failed to release reservations", slog.Any("error", err))
	}
}

// ownedOrder loads an order and checks it belongs to userID.
func (uc *checkoutUseCase) ownedOrder(ctx context.Context, orderID uuid.UUID, userID string) (*ordersDomain.Order, error) {
	order, err := uc.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != userID {
		return nil, ordersDomain.ErrOrderNotOwned
	}
	return order, nil
}

func (uc *checkoutUseCase) RetryPayment(
	ctx context.Context,
	orderID uuid.UUID,
	userID, paymentMethod string,
) (*domain.Result, error) {
	if err := validatePaymentMethod(paymentMethod); err != nil {
		return nil, err
	}

	order, err := uc.ownedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != ordersDomain.OrderStatusPaymentPending {
		return nil, domain.ErrOrderNotAwaitingPayment
	}
	logger := uc.logger.With(slog.String("order_id", order.ID.String()), slog.String("user_id", userID))

	result, err := uc.pay(ctx, logger, order, paymentMethod)
	if err != nil {
		return nil, err
	}

	// The cart was kept after the failed attempt; this order now covers it.
	if err := uc.carts.ClearCart(ctx, userID); err != nil {
		logger.Error("failed to clear cart after payment retry", slog.Any("error", err))
	}

	logger.Info("payment retry completed", slog.String("payment_id", result.PaymentID.String()))
	return result, nil
}

// CancelOrder cancels the order and releases its reservations in one transaction, so a
// failed release leaves the order in its previous status.
func (uc *checkoutUseCase) CancelOrder(ctx context.Context, orderID uuid.UUID, userID string) (*ordersDomain.Order, error) {
	if _, err := uc.ownedOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	var (
		cancelled *ordersDomain.Order
		released  int
	)
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		cancelled, err = uc.orders.UpdateStatus(ctx, orderID, ordersDomain.OrderStatusCancelled)
		if err != nil {
			return err
		}
		released, err = uc.inventory.ReleaseByCorrelation(ctx, orderID.String())
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order cancelled",
		slog.String("order_id", orderID.String()),
		slog.Int("released_reservations", released),
	)
	return cancelled, nil
}
