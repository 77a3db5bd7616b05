// Package usecase implements the checkout saga that turns a cart into a paid order.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cartDomain "github.com/wingedsheep/eco-logique/internal/cart/domain"
	"github.com/wingedsheep/eco-logique/internal/checkout/domain"
	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	inventoryUseCase "github.com/wingedsheep/eco-logique/internal/inventory/usecase"
	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
	ordersUseCase "github.com/wingedsheep/eco-logique/internal/orders/usecase"
	paymentDomain "github.com/wingedsheep/eco-logique/internal/payment/domain"
	paymentUseCase "github.com/wingedsheep/eco-logique/internal/payment/usecase"
)

// CartService reads and clears carts.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*cartDomain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// InventoryService checks, reserves and releases stock.
type InventoryService interface {
	CheckStock(ctx context.Context, productID string) (*inventoryDomain.StockLevel, error)
	ReserveStock(ctx context.Context, input inventoryUseCase.ReserveStockInput) ([]*inventoryDomain.StockReservation, error)
	ReleaseReservation(ctx context.Context, reservationID uuid.UUID) error
	ReleaseByCorrelation(ctx context.Context, correlationID string) (int, error)
}

// OrderService creates orders and advances their status.
type OrderService interface {
	CreateOrder(ctx context.Context, input ordersUseCase.CreateOrderInput) (*ordersDomain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*ordersDomain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target ordersDomain.OrderStatus) (*ordersDomain.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID string) (*ordersDomain.Order, error)
}

// PaymentService charges an order.
type PaymentService interface {
	ProcessPayment(ctx context.Context, input paymentUseCase.ProcessPaymentInput) (*paymentDomain.Payment, error)
}

// Config holds checkout settings.
type Config struct {
	// Currency of every order placed through checkout.
	Currency string
}

// UseCase defines the checkout operations.
type UseCase interface {
	// Checkout places an order for the user's cart and pays it. Reservations taken
	// before a failure in reservation are released; a failed payment keeps them so
	// the payment can be retried.
	Checkout(ctx context.Context, userID, paymentMethod string) (*domain.Result, error)

	// RetryPayment charges an order of userID that is still in PAYMENT_PENDING.
	RetryPayment(ctx context.Context, orderID uuid.UUID, userID, paymentMethod string) (*domain.Result, error)

	// CancelOrder cancels an order of userID and releases its active reservations.
	CancelOrder(ctx context.Context, orderID uuid.UUID, userID string) (*ordersDomain.Order, error)
}
