package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
	"github.com/wingedsheep/eco-logique/internal/payment/domain"
	"github.com/wingedsheep/eco-logique/internal/payment/gateway"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type paymentStore struct {
	mu        sync.Mutex
	payments  []*domain.Payment
	createErr error
}

func (s *paymentStore) Create(_ context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.payments = append(s.payments, payment)
	return nil
}

func (s *paymentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, payment := range s.payments {
		if payment.ID == id {
			return payment, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (s *paymentStore) ListByOrder(_ context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payments []*domain.Payment
	for _, payment := range s.payments {
		if payment.OrderID == orderID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

type recordingPublisher struct {
	events []outboxDomain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event outboxDomain.Event) error {
	p.events = append(p.events, event)
	return nil
}

func setupPaymentUseCase(gw Gateway, maxAttempts int) (UseCase, *paymentStore, *recordingPublisher) {
	txManager := &MockTxManager{}
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	store := &paymentStore{}
	publisher := &recordingPublisher{}
	uc := NewPaymentUseCase(Config{MaxAttempts: maxAttempts}, txManager, store, gw, publisher, nil)
	return uc, store, publisher
}

func validInput(method string) ProcessPaymentInput {
	return ProcessPaymentInput{
		OrderID:       uuid.Must(uuid.NewV7()),
		Amount:        decimal.RequireFromString("39.98"),
		Currency:      "EUR",
		PaymentMethod: method,
	}
}

func TestPaymentUseCase_ProcessPayment_Completed(t *testing.T) {
	uc, store, publisher := setupPaymentUseCase(gateway.NewSimulatedGateway(), 3)
	input := validInput("tok_visa")

	payment, err := uc.ProcessPayment(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, 1, payment.Attempts)
	require.NotNil(t, payment.ProviderReference)
	assert.True(t, strings.HasPrefix(*payment.ProviderReference, "ch_"))
	assert.Len(t, store.payments, 1)
	assert.Equal(t, payment.ProviderReference, store.payments[0].ProviderReference)
	require.Len(t, publisher.events, 1)
	completed := publisher.events[0].(domain.PaymentCompleted)
	assert.Equal(t, input.OrderID, completed.OrderID)
	assert.Equal(t, payment.ID, completed.PaymentID)
}

func TestPaymentUseCase_ProcessPayment_DeclinedIsNotRetried(t *testing.T) {
	gw := &MockGateway{}
	gw.On("Charge", mock.Anything, mock.Anything).
		Return("", &domain.PaymentDeclinedError{Reason: "card declined"}).Once()
	uc, store, publisher := setupPaymentUseCase(gw, 3)

	payment, err := uc.ProcessPayment(context.Background(), validInput(gateway.TokenDeclined))

	var declined *domain.PaymentDeclinedError
	require.ErrorAs(t, err, &declined)
	assert.ErrorIs(t, err, apperrors.ErrPaymentRequired)
	require.NotNil(t, payment)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	assert.Equal(t, 1, payment.Attempts)
	assert.Nil(t, payment.ProviderReference)
	assert.Len(t, store.payments, 1)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventTypePaymentFailed, publisher.events[0].EventType())
	gw.AssertNumberOfCalls(t, "Charge", 1)
}

func TestPaymentUseCase_ProcessPayment_TransientIsRetried(t *testing.T) {
	gw := &MockGateway{}
	gw.On("Charge", mock.Anything, mock.Anything).Return("", domain.ErrProviderUnavailable).Twice()
	gw.On("Charge", mock.Anything, mock.Anything).Return("ch_1", nil).Once()
	uc, _, publisher := setupPaymentUseCase(gw, 3)

	payment, err := uc.ProcessPayment(context.Background(), validInput("tok_visa"))

	require.NoError(t, err)
	assert.Equal(t, 3, payment.Attempts)
	require.NotNil(t, payment.ProviderReference)
	assert.Equal(t, "ch_1", *payment.ProviderReference)
	assert.Equal(t, domain.EventTypePaymentCompleted, publisher.events[0].EventType())
	gw.AssertExpectations(t)
}

func TestPaymentUseCase_ProcessPayment_TransientExhausted(t *testing.T) {
	uc, store, publisher := setupPaymentUseCase(gateway.NewSimulatedGateway(), 2)

	payment, err := uc.ProcessPayment(context.Background(), validInput(gateway.TokenUnavailable))

	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	require.NotNil(t, payment)
	assert.Equal(t, 2, payment.Attempts)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	assert.Len(t, store.payments, 1)
	assert.Equal(t, domain.EventTypePaymentFailed, publisher.events[0].EventType())
}

func TestPaymentUseCase_ProcessPayment_Validation(t *testing.T) {
	uc, store, _ := setupPaymentUseCase(gateway.NewSimulatedGateway(), 1)

	tests := []struct {
		name  string
		input func(in *ProcessPaymentInput)
	}{
		{"missing order", func(in *ProcessPaymentInput) { in.OrderID = uuid.Nil }},
		{"zero amount", func(in *ProcessPaymentInput) { in.Amount = decimal.Zero }},
		{"bad currency", func(in *ProcessPaymentInput) { in.Currency = "EURO" }},
		{"blank method", func(in *ProcessPaymentInput) { in.PaymentMethod = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput("tok_visa")
			tt.input(&input)

			_, err := uc.ProcessPayment(context.Background(), input)

			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.payments)
}

func TestPaymentUseCase_ProcessPayment_RepositoryError(t *testing.T) {
	uc, store, publisher := setupPaymentUseCase(gateway.NewSimulatedGateway(), 1)
	store.createErr = errors.New("db down")

	payment, err := uc.ProcessPayment(context.Background(), validInput("tok_visa"))

	assert.Nil(t, payment)
	assert.EqualError(t, err, "db down")
	assert.Empty(t, publisher.events)
}

func TestPaymentUseCase_ListPaymentsByOrder(t *testing.T) {
	uc, _, _ := setupPaymentUseCase(gateway.NewSimulatedGateway(), 1)
	input := validInput(gateway.TokenDeclined)

	_, _ = uc.ProcessPayment(context.Background(), input)
	input.PaymentMethod = "tok_visa"
	paid, err := uc.ProcessPayment(context.Background(), input)
	require.NoError(t, err)

	payments, err := uc.ListPaymentsByOrder(context.Background(), input.OrderID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	found, err := uc.GetPayment(context.Background(), paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, found.Status)
}
