package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/wingedsheep/eco-logique/internal/database"
	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
	appValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

type inventoryUseCase struct {
	txManager       database.TxManager
	itemRepo        InventoryItemRepository
	reservationRepo ReservationRepository
	publisher       EventPublisher
	now             func() time.Time
}

// NewInventoryUseCase creates the inventory UseCase.
func NewInventoryUseCase(
	txManager database.TxManager,
	itemRepo InventoryItemRepository,
	reservationRepo ReservationRepository,
	publisher EventPublisher,
) UseCase {
	return &inventoryUseCase{
		txManager:       txManager,
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
		publisher:       publisher,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (uc *inventoryUseCase) CheckStock(ctx context.Context, productID string) (*domain.StockLevel, error) {
	items, err := uc.itemRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrProductNotFound
	}

	level := domain.NewStockLevel(productID, items)
	return &level, nil
}

func validateReserveStockInput(input ReserveStockInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.ProductID, validation.Required, appValidation.Identifier),
		validation.Field(&input.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&input.CorrelationID, validation.Required, appValidation.NotBlank),
	)
	return appValidation.WrapValidationError(err)
}

func (uc *inventoryUseCase) ReserveStock(
	ctx context.Context,
	input ReserveStockInput,
) ([]*domain.StockReservation, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := validateReserveStockInput(input); err != nil {
		return nil, err
	}

	var reservations []*domain.StockReservation
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		reservations = nil

		items, err := uc.itemRepo.ListByProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrProductNotFound
		}

		allocations, err := domain.Allocate(input.ProductID, items, input.Quantity)
		if err != nil {
			return err
		}

		now := uc.now()
		for _, allocation := range allocations {
			allocation.Item.UpdatedAt = now
			if err := uc.itemRepo.Save(ctx, allocation.Item); err != nil {
				return err
			}

			reservation := &domain.StockReservation{
				ID:            uuid.Must(uuid.NewV7()),
				ProductID:     input.ProductID,
				WarehouseID:   allocation.Item.WarehouseID,
				Quantity:      allocation.Quantity,
				CorrelationID: input.CorrelationID,
				Status:        domain.ReservationStatusActive,
				CreatedAt:     now,
			}
			if err := uc.reservationRepo.Create(ctx, reservation); err != nil {
				return err
			}

			if err := uc.publisher.Publish(ctx, domain.StockReserved{
				ReservationID: reservation.ID,
				ProductID:     reservation.ProductID,
				WarehouseID:   reservation.WarehouseID,
				Quantity:      reservation.Quantity,
				CorrelationID: reservation.CorrelationID,
			}); err != nil {
				return err
			}

			reservations = append(reservations, reservation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (uc *inventoryUseCase) ReleaseReservation(ctx context.Context, reservationID uuid.UUID) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		reservation, err := uc.reservationRepo.GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if reservation.Status != domain.ReservationStatusActive {
			return domain.ErrReservationNotFound
		}

		item, err := uc.itemRepo.GetForUpdate(ctx, reservation.ProductID, reservation.WarehouseID)
		if err != nil {
			return err
		}
		if item != nil {
			item.QuantityReserved = max(item.QuantityReserved-reservation.Quantity, 0)
			item.UpdatedAt = uc.now()
			if err := uc.itemRepo.Save(ctx, item); err != nil {
				return err
			}
		}

		reservation.Status = domain.ReservationStatusCancelled
		if err := uc.reservationRepo.UpdateStatus(ctx, reservation); err != nil {
			return err
		}

		return uc.publisher.Publish(ctx, domain.ReservationReleased{
			ReservationID: reservation.ID,
			ProductID:     reservation.ProductID,
			WarehouseID:   reservation.WarehouseID,
			Quantity:      reservation.Quantity,
			CorrelationID: reservation.CorrelationID,
		})
	})
}

func (uc *inventoryUseCase) ListActiveReservations(
	ctx context.Context,
	correlationID string,
) ([]*domain.StockReservation, error) {
	return uc.reservationRepo.ListActiveByCorrelation(ctx, correlationID)
}

func (uc *inventoryUseCase) ReleaseByCorrelation(ctx context.Context, correlationID string) (int, error) {
	released := 0
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		released = 0
		reservations, err := uc.reservationRepo.ListActiveByCorrelation(ctx, correlationID)
		if err != nil {
			return err
		}
		for _, reservation := range reservations {
			if err := uc.ReleaseReservation(ctx, reservation.ID); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

func (uc *inventoryUseCase) SetStock(ctx context.Context, input SetStockInput) (*domain.InventoryItem, error) {
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.WarehouseID = strings.TrimSpace(input.WarehouseID)

	err := validation.ValidateStruct(&input,
		validation.Field(&input.ProductID, validation.Required, appValidation.Identifier),
		validation.Field(&input.WarehouseID, validation.Required, appValidation.Identifier),
		validation.Field(&input.OnHand, validation.Min(0)),
	)
	if err := appValidation.WrapValidationError(err); err != nil {
		return nil, err
	}

	var item *domain.InventoryItem
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := uc.itemRepo.GetForUpdate(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing = &domain.InventoryItem{ProductID: input.ProductID, WarehouseID: input.WarehouseID}
		}
		if input.OnHand < existing.QuantityReserved {
			return domain.ErrOnHandBelowReserved
		}

		existing.QuantityOnHand = input.OnHand
		existing.UpdatedAt = uc.now()
		if err := uc.itemRepo.Save(ctx, existing); err != nil {
			return err
		}
		item = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *inventoryUseCase) ProductExists(ctx context.Context, productID string) (bool, error) {
	return uc.itemRepo.ProductExists(ctx, productID)
}
