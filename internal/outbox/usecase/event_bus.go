package usecase

import (
	"context"
	"sync"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"
)

// Handler receives a decoded event.
type Handler func(ctx context.Context, event domain.Event) error

// EventBus fans decoded events out to in-process listeners.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	catchAll []Handler
}

// NewEventBus creates an EventBus with no listeners.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]Handler)}
}

// Subscribe registers handler for one event type.
func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers handler for every event type. Catch-all handlers run after
// the type-specific ones.
func (b *EventBus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catchAll = append(b.catchAll, handler)
}

// On subscribes a listener typed to the concrete event T.
func On[T domain.Event](b *EventBus, listener func(ctx context.Context, event T) error) {
	var zero T
	b.Subscribe(zero.EventType(), func(ctx context.Context, event domain.Event) error {
		typed, ok := event.(T)
		if !ok {
			return apperrors.Wrapf(domain.ErrUnknownEventType, "unexpected payload %T for %s", event, zero.EventType())
		}
		return listener(ctx, typed)
	})
}

// Dispatch calls every handler subscribed to event's type, then the catch-all
// handlers, in registration order. All handlers run even if one fails; their errors
// are joined.
func (b *EventBus) Dispatch(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.EventType()])+len(b.catchAll))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.catchAll...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return apperrors.Join(errs...)
}

// HandlerCount returns the number of handlers that would receive eventType.
func (b *EventBus) HandlerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) + len(b.catchAll)
}
