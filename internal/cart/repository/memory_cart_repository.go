// Package repository provides cart stores backed by process memory or Redis.
package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/wingedsheep/eco-logique/internal/cart/domain"
)

// MemoryCartRepository keeps carts in a map. Carts are copied in and out so callers
// never share state with the store.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

// NewMemoryCartRepository creates an empty MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[string]domain.Cart)}
}

// Get returns a copy of the user's cart, or an empty cart.
func (r *MemoryCartRepository) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return domain.NewCart(userID), nil
	}
	cart.Items = slices.Clone(cart.Items)
	return &cart, nil
}

// Save stores a copy of cart.
func (r *MemoryCartRepository) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *cart
	stored.Items = slices.Clone(cart.Items)
	r.carts[cart.UserID] = stored
	return nil
}

// Delete removes the user's cart.
func (r *MemoryCartRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}
