package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/wingedsheep/eco-logique/internal/cart/domain"
	appValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

type cartUseCase struct {
	cartRepo CartRepository
	products ProductChecker
	now      func() time.Time

	// locks serializes read-modify-write cycles per user within this process.
	locks sync.Map
}

// NewCartUseCase creates the cart UseCase.
func NewCartUseCase(cartRepo CartRepository, products ProductChecker) UseCase {
	return &cartUseCase{
		cartRepo: cartRepo,
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *cartUseCase) lock(userID string) func() {
	value, _ := uc.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func validateUserID(userID string) error {
	return appValidation.WrapValidationError(
		validation.Validate(userID, validation.Required.Error("user id is required"), appValidation.Identifier),
	)
}

func (uc *cartUseCase) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return uc.cartRepo.Get(ctx, userID)
}

func (uc *cartUseCase) AddItem(ctx context.Context, input AddItemInput) (*domain.Cart, error) {
	input.ProductName = strings.TrimSpace(input.ProductName)

	err := validation.ValidateStruct(&input,
		validation.Field(&input.UserID, validation.Required, appValidation.Identifier),
		validation.Field(&input.ProductID, validation.Required, appValidation.Identifier),
		validation.Field(&input.ProductName, validation.Required, validation.Length(1, 255)),
		validation.Field(&input.UnitPrice, appValidation.NonNegativeDecimal),
		validation.Field(&input.Quantity, validation.Required, validation.Min(1)),
	)
	if err := appValidation.WrapValidationError(err); err != nil {
		return nil, err
	}

	exists, err := uc.products.ProductExists(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	unlock := uc.lock(input.UserID)
	defer unlock()

	cart, err := uc.cartRepo.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(domain.CartItem{
		ProductID:   input.ProductID,
		ProductName: input.ProductName,
		UnitPrice:   input.UnitPrice,
		Quantity:    input.Quantity,
	}, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	unlock := uc.lock(userID)
	defer unlock()

	cart, err := uc.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *cartUseCase) ClearCart(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	unlock := uc.lock(userID)
	defer unlock()

	return uc.cartRepo.Delete(ctx, userID)
}
