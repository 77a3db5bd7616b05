package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/wingedsheep/eco-logique/internal/database"
	"github.com/wingedsheep/eco-logique/internal/orders/domain"
	appValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

type orderUseCase struct {
	txManager database.TxManager
	orderRepo OrderRepository
	publisher EventPublisher
	now       func() time.Time
}

// NewOrderUseCase creates the orders UseCase.
func NewOrderUseCase(txManager database.TxManager, orderRepo OrderRepository, publisher EventPublisher) UseCase {
	return &orderUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func validateCreateOrderInput(input *CreateOrderInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.OwnerID, validation.Required, appValidation.Identifier),
		validation.Field(&input.Currency, validation.Required, appValidation.CurrencyCode),
		validation.Field(&input.Lines, validation.Required),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	for i := range input.Lines {
		line := &input.Lines[i]
		err := validation.ValidateStruct(line,
			validation.Field(&line.ProductID, validation.Required, appValidation.Identifier),
			validation.Field(&line.ProductName, appValidation.NotBlank),
			validation.Field(&line.UnitPrice, appValidation.NonNegativeDecimal),
		)
		if err != nil {
			return appValidation.WrapValidationError(err)
		}
	}
	return nil
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	if len(input.Lines) == 0 {
		return nil, domain.ErrOrderHasNoLines
	}
	if err := validateCreateOrderInput(&input); err != nil {
		return nil, err
	}

	lines := make([]domain.OrderLine, 0, len(input.Lines))
	for _, in := range input.Lines {
		line, err := domain.NewOrderLine(in.ProductID, in.ProductName, in.UnitPrice, in.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	order, err := domain.NewOrder(input.OwnerID, lines, input.Currency, uc.now())
	if err != nil {
		return nil, err
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return uc.publisher.Publish(ctx, domain.OrderCreated{
			OrderID:    order.ID,
			OwnerID:    order.OwnerID,
			GrandTotal: order.Totals.GrandTotal,
			Currency:   order.Totals.Currency,
			LineCount:  len(order.Lines),
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.orderRepo.GetByID(ctx, id)
}

func (uc *orderUseCase) ListOrdersByOwner(
	ctx context.Context,
	ownerID string,
	offset, limit int,
) ([]*domain.Order, error) {
	return uc.orderRepo.ListByOwner(ctx, ownerID, offset, limit)
}

func (uc *orderUseCase) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	target domain.OrderStatus,
) (*domain.Order, error) {
	return uc.transition(ctx, id, target, nil, nil)
}

func (uc *orderUseCase) MarkReserved(
	ctx context.Context,
	id uuid.UUID,
	reservations ReservationReader,
) (*domain.Order, error) {
	covered := func(ctx context.Context, order *domain.Order) error {
		active, err := reservations.ListActiveReservations(ctx, order.ID.String())
		if err != nil {
			return err
		}
		reserved := make(map[string]int, len(active))
		for _, reservation := range active {
			reserved[reservation.ProductID] += reservation.Quantity
		}
		if !order.CoveredBy(reserved) {
			return domain.ErrReservationIncomplete
		}
		return nil
	}
	return uc.transition(ctx, id, domain.OrderStatusReserved, covered, nil)
}

func (uc *orderUseCase) MarkPaid(ctx context.Context, id uuid.UUID, paymentID string) (*domain.Order, error) {
	return uc.transition(ctx, id, domain.OrderStatusPaid, nil, func(order *domain.Order) bool {
		if order.PaymentID != nil && *order.PaymentID == paymentID {
			return false
		}
		order.PaymentID = &paymentID
		return true
	})
}

// transition locks the order, applies target and publishes order.status_changed.
// guard, when set, runs under the lock before the move. mutate, when set, reports
// whether it changed the order; it is the only caller allowed to find the order
// already in target, so a late MarkPaid still records its payment id. Every other
// self-transition fails with *domain.InvalidTransitionError.
func (uc *orderUseCase) transition(
	ctx context.Context,
	id uuid.UUID,
	target domain.OrderStatus,
	guard func(ctx context.Context, order *domain.Order) error,
	mutate func(order *domain.Order) bool,
) (*domain.Order, error) {
	if _, err := domain.ParseOrderStatus(string(target)); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := uc.orderRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		order = current

		if current.Status == target && mutate != nil {
			if mutate(current) {
				current.UpdatedAt = uc.now()
				return uc.orderRepo.Update(ctx, current)
			}
			return nil
		}

		if guard != nil {
			if err := guard(ctx, current); err != nil {
				return err
			}
		}

		from := current.Status
		if err := current.TransitionTo(target, uc.now()); err != nil {
			return err
		}
		if mutate != nil {
			mutate(current)
		}

		if err := uc.orderRepo.Update(ctx, current); err != nil {
			return err
		}
		return uc.publisher.Publish(ctx, domain.OrderStatusChanged{
			OrderID:    current.ID,
			FromStatus: from,
			ToStatus:   target,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
