package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	inventoryDomain "github.com/wingedsheep/eco-logique/internal/inventory/domain"
	"github.com/wingedsheep/eco-logique/internal/metrics"
	"github.com/wingedsheep/eco-logique/internal/orders/domain"
	outboxDomain "github.com/wingedsheep/eco-logique/internal/outbox/domain"
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

func newPassThroughTxManager() *MockTxManager {
	txManager := &MockTxManager{}
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	return txManager
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []outboxDomain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event outboxDomain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType())
	}
	return types
}

// orderStore is an in-memory OrderRepository storing copies.
type orderStore struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]domain.Order
	updateErr error
	updates   int
}

func newOrderStore(orders ...*domain.Order) *orderStore {
	store := &orderStore{orders: make(map[uuid.UUID]domain.Order)}
	for _, order := range orders {
		store.orders[order.ID] = *order
	}
	return store
}

func (s *orderStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = *order
	return nil
}

func (s *orderStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (s *orderStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.GetByID(ctx, id)
}

func (s *orderStore) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owned []*domain.Order
	for _, order := range s.orders {
		if order.OwnerID == ownerID {
			o := order
			owned = append(owned, &o)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	if offset >= len(owned) {
		return nil, nil
	}
	return owned[offset:min(offset+limit, len(owned))], nil
}

func (s *orderStore) Update(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.orders[order.ID] = *order
	s.updates++
	return nil
}

func (s *orderStore) status(id uuid.UUID) domain.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

// MockReservationReader is a mock implementation of ReservationReader
type MockReservationReader struct {
	mock.Mock
}

func (m *MockReservationReader) ListActiveReservations(
	ctx context.Context,
	correlationID string,
) ([]*inventoryDomain.StockReservation, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventoryDomain.StockReservation), args.Error(1)
}

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func newTestOrder(t interface{ Helper() }, status domain.OrderStatus) *domain.Order {
	t.Helper()
	line, _ := domain.NewOrderLine("tshirt", "T-Shirt", mustDecimal("19.99"), 2)
	order, _ := domain.NewOrder("user-1", []domain.OrderLine{line}, "EUR", time.Now().UTC())
	order.Status = status
	return order
}

// reservationsFor returns one active reservation per line of order, fully covering it.
func reservationsFor(order *domain.Order) []*inventoryDomain.StockReservation {
	reservations := make([]*inventoryDomain.StockReservation, 0, len(order.Lines))
	for _, line := range order.Lines {
		reservations = append(reservations, &inventoryDomain.StockReservation{
			ID:            uuid.Must(uuid.NewV7()),
			ProductID:     line.ProductID,
			WarehouseID:   "wh-1",
			Quantity:      line.Quantity,
			CorrelationID: order.ID.String(),
			Status:        inventoryDomain.ReservationStatusActive,
		})
	}
	return reservations
}
