package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	ordersDomain "github.com/wingedsheep/eco-logique/internal/orders/domain"
	"github.com/wingedsheep/eco-logique/internal/shipping/domain"
	appValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

type shippingUseCase struct {
	txManager    database.TxManager
	shipmentRepo ShipmentRepository
	orders       OrderReader
	publisher    EventPublisher
	now          func() time.Time
}

// NewShippingUseCase creates the shipping UseCase.
func NewShippingUseCase(
	txManager database.TxManager,
	shipmentRepo ShipmentRepository,
	orders OrderReader,
	publisher EventPublisher,
) UseCase {
	return &shippingUseCase{
		txManager:    txManager,
		shipmentRepo: shipmentRepo,
		orders:       orders,
		publisher:    publisher,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (uc *shippingUseCase) Ship(ctx context.Context, input ShipInput) (*domain.Shipment, error) {
	if input.OrderID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "order_id: cannot be blank")
	}
	input.Carrier = strings.TrimSpace(input.Carrier)
	input.TrackingNumber = strings.TrimSpace(input.TrackingNumber)
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Carrier, validation.Required, validation.Length(1, 64)),
		validation.Field(&input.TrackingNumber, validation.Required, validation.Length(1, 128)),
	)
	if err := appValidation.WrapValidationError(err); err != nil {
		return nil, err
	}

	order, err := uc.orders.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != ordersDomain.OrderStatusPaid {
		return nil, domain.ErrOrderNotPaid
	}

	shipment := &domain.Shipment{
		ID:             uuid.Must(uuid.NewV7()),
		OrderID:        order.ID,
		Carrier:        input.Carrier,
		TrackingNumber: input.TrackingNumber,
		Status:         domain.ShipmentStatusShipped,
		ShippedAt:      uc.now(),
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := uc.shipmentRepo.GetByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyShipped
		}
		if err := uc.shipmentRepo.Create(ctx, shipment); err != nil {
			return err
		}
		return uc.publisher.Publish(ctx, domain.OrderShipped{
			ShipmentID:     shipment.ID,
			OrderID:        shipment.OrderID,
			Carrier:        shipment.Carrier,
			TrackingNumber: shipment.TrackingNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

func (uc *shippingUseCase) MarkDelivered(ctx context.Context, shipmentID uuid.UUID) (*domain.Shipment, error) {
	var shipment *domain.Shipment
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		shipment, err = uc.shipmentRepo.GetByIDForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if err := shipment.MarkDelivered(uc.now()); err != nil {
			return err
		}
		if err := uc.shipmentRepo.Update(ctx, shipment); err != nil {
			return err
		}
		return uc.publisher.Publish(ctx, domain.ShipmentDelivered{
			ShipmentID: shipment.ID,
			OrderID:    shipment.OrderID,
		})
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

func (uc *shippingUseCase) GetShipment(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return uc.shipmentRepo.GetByID(ctx, id)
}
