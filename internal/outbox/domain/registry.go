package domain

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

// Decoder turns a stored payload back into its event.
type Decoder func(payload []byte) (Event, error)

// Registry maps event type tags to decoders. It is populated at startup and read by
// the publisher (to reject unregistered events) and the processor (to decode rows).
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register adds a decoder for eventType.
func (r *Registry) Register(eventType string, decoder Decoder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decoders[eventType]; ok {
		return errors.Wrapf(ErrEventTypeAlreadyRegistered, "event type %q", eventType)
	}
	r.decoders[eventType] = decoder
	return nil
}

// RegisterEvent registers a JSON decoder for the concrete event type T under the tag
// returned by T's EventType method.
func RegisterEvent[T Event](r *Registry) error {
	var zero T
	return r.Register(zero.EventType(), func(payload []byte) (Event, error) {
		var event T
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s payload", zero.EventType())
		}
		return event, nil
	})
}

// MustRegisterEvent is RegisterEvent that panics on duplicate registration.
func MustRegisterEvent[T Event](r *Registry) {
	if err := RegisterEvent[T](r); err != nil {
		panic(err)
	}
}

// Decode resolves eventType and decodes payload with its decoder.
func (r *Registry) Decode(eventType string, payload []byte) (Event, error) {
	r.mu.RLock()
	decoder, ok := r.decoders[eventType]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownEventType, "event type %q", eventType)
	}
	return decoder(payload)
}

// IsRegistered reports whether eventType has a decoder.
func (r *Registry) IsRegistered(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.decoders[eventType]
	return ok
}

// Types returns the registered tags in lexical order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.decoders))
	for t := range r.decoders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
