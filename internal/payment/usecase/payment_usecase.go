package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/wingedsheep/eco-logique/internal/database"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/payment/domain"
	"github.com/wingedsheep/eco-logique/internal/payment/gateway"
	appValidation "github.com/wingedsheep/eco-logique/internal/validation"
)

// Config controls retries of transient gateway failures.
type Config struct {
	MaxAttempts int
	Backoff     time.Duration
}

type paymentUseCase struct {
	config      Config
	txManager   database.TxManager
	paymentRepo PaymentRepository
	gateway     Gateway
	publisher   EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewPaymentUseCase creates the payment UseCase.
func NewPaymentUseCase(
	config Config,
	txManager database.TxManager,
	paymentRepo PaymentRepository,
	gw Gateway,
	publisher EventPublisher,
	logger *slog.Logger,
) UseCase {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &paymentUseCase{
		config:      config,
		txManager:   txManager,
		paymentRepo: paymentRepo,
		gateway:     gw,
		publisher:   publisher,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *paymentUseCase) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*domain.Payment, error) {
	if input.OrderID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "order_id: cannot be blank")
	}
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Amount, appValidation.PositiveDecimal),
		validation.Field(&input.Currency, validation.Required, appValidation.CurrencyCode),
		validation.Field(&input.PaymentMethod, validation.Required, appValidation.NotBlank),
	)
	if err := appValidation.WrapValidationError(err); err != nil {
		return nil, err
	}

	reference, attempts, chargeErr := uc.charge(ctx, input)

	payment := &domain.Payment{
		ID:        uuid.Must(uuid.NewV7()),
		OrderID:   input.OrderID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Method:    input.PaymentMethod,
		Status:    domain.PaymentStatusCompleted,
		Attempts:  attempts,
		CreatedAt: uc.now(),
	}
	if chargeErr != nil {
		reason := chargeErr.Error()
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = &reason
	} else {
		payment.ProviderReference = &reference
	}

	// A cancelled caller gets nothing recorded; the charge outcome is unknown to it.
	if chargeErr != nil && ctx.Err() != nil {
		return nil, chargeErr
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if payment.Status == domain.PaymentStatusCompleted {
			return uc.publisher.Publish(ctx, domain.PaymentCompleted{
				PaymentID: payment.ID,
				OrderID:   payment.OrderID,
				Amount:    payment.Amount,
				Currency:  payment.Currency,
			})
		}
		return uc.publisher.Publish(ctx, domain.PaymentFailed{
			PaymentID: payment.ID,
			OrderID:   payment.OrderID,
			Reason:    *payment.FailureReason,
		})
	})
	if err != nil {
		return nil, err
	}

	if chargeErr != nil {
		return payment, chargeErr
	}
	return payment, nil
}

// charge calls the gateway, retrying transient failures with exponential backoff.
// It returns the provider reference and the number of attempts made.
func (uc *paymentUseCase) charge(ctx context.Context, input ProcessPaymentInput) (string, int, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = uc.config.Backoff
	policy.MaxElapsedTime = 0

	var reference string
	attempts := 0
	operation := func() error {
		attempts++
		ref, err := uc.gateway.Charge(ctx, gateway.ChargeRequest{
			OrderID:       input.OrderID,
			Amount:        input.Amount,
			Currency:      input.Currency,
			PaymentMethod: input.PaymentMethod,
		})
		if err != nil && !apperrors.Is(err, apperrors.ErrUnavailable) {
			return backoff.Permanent(err)
		}
		reference = ref
		return err
	}
	notify := func(err error, wait time.Duration) {
		uc.logger.Warn("payment attempt failed, retrying",
			slog.String("order_id", input.OrderID.String()),
			slog.Int("attempt", attempts),
			slog.Duration("wait", wait),
			slog.Any("error", err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(uc.config.MaxAttempts-1)), ctx)
	err := backoff.RetryNotify(operation, b, notify)
	return reference, attempts, err
}

func (uc *paymentUseCase) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

func (uc *paymentUseCase) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	return uc.paymentRepo.ListByOrder(ctx, orderID)
}
