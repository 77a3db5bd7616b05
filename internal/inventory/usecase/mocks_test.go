package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wingedsheep/eco-logique/internal/inventory/domain"
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

// recordingPublisher collects published events.
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

// itemStore is an in-memory InventoryItemRepository.
type itemStore struct {
	mu      sync.Mutex
	items   map[string]domain.InventoryItem
	saveErr error
}

func newItemStore(items ...domain.InventoryItem) *itemStore {
	store := &itemStore{items: make(map[string]domain.InventoryItem)}
	for _, item := range items {
		store.items[item.ProductID+"/"+item.WarehouseID] = item
	}
	return store
}

func (s *itemStore) ListByProduct(_ context.Context, productID string) ([]*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []*domain.InventoryItem
	for _, item := range s.items {
		if item.ProductID == productID {
			copied := item
			items = append(items, &copied)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].WarehouseID < items[j].WarehouseID })
	return items, nil
}

func (s *itemStore) ListByProductForUpdate(ctx context.Context, productID string) ([]*domain.InventoryItem, error) {
	return s.ListByProduct(ctx, productID)
}

func (s *itemStore) GetForUpdate(_ context.Context, productID, warehouseID string) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[productID+"/"+warehouseID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *itemStore) Save(_ context.Context, item *domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items[item.ProductID+"/"+item.WarehouseID] = *item
	return nil
}

func (s *itemStore) ProductExists(_ context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// reservationStore is an in-memory ReservationRepository.
type reservationStore struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]domain.StockReservation
	order        []uuid.UUID
}

func newReservationStore() *reservationStore {
	return &reservationStore{reservations: make(map[uuid.UUID]domain.StockReservation)}
}

func (s *reservationStore) Create(_ context.Context, reservation *domain.StockReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[reservation.ID] = *reservation
	s.order = append(s.order, reservation.ID)
	return nil
}

func (s *reservationStore) GetForUpdate(_ context.Context, id uuid.UUID) (*domain.StockReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reservation, ok := s.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return &reservation, nil
}

func (s *reservationStore) UpdateStatus(_ context.Context, reservation *domain.StockReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.reservations[reservation.ID]
	stored.Status = reservation.Status
	s.reservations[reservation.ID] = stored
	return nil
}

func (s *reservationStore) ListActiveByCorrelation(
	_ context.Context,
	correlationID string,
) ([]*domain.StockReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*domain.StockReservation
	for _, id := range s.order {
		reservation := s.reservations[id]
		if reservation.CorrelationID == correlationID && reservation.Status == domain.ReservationStatusActive {
			copied := reservation
			active = append(active, &copied)
		}
	}
	return active, nil
}
