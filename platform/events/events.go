// Package events provides an in-process event bus used for decoupled
// cross-module communication (notifications, counters).
package events

import (
	"context"
	"sync"
	"time"

	"marketplace_backend/platform/logger"
)

// Event is implemented by every domain event.
type Event interface {
	EventName() string
}

// BaseEvent carries fields shared by all events.
type BaseEvent struct {
	Timestamp time.Time
}

// NewBaseEvent creates a BaseEvent stamped with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler processes a single event. Returned errors are logged,
// never propagated to the publisher.
type Handler func(ctx context.Context, event Event) error

// Bus publishes events to subscribed handlers.
type Bus interface {
	// Publish dispatches the event to all subscribers asynchronously.
	// It never blocks on handler execution and never returns handler errors.
	Publish(ctx context.Context, event Event)
	// PublishSync dispatches the event and waits for all handlers.
	// The first handler error is returned.
	PublishSync(ctx context.Context, event Event) error
	// Subscribe registers a handler for the named event.
	Subscribe(eventName string, handler Handler)
}

// InMemoryBus is a process-local Bus. Handlers run in their own
// goroutines on Publish; panics are recovered and logged.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

var _ Bus = (*InMemoryBus)(nil)

func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	for _, h := range handlers {
		go func(h Handler) {
			defer b.recoverPanic(event)
			// Detach from the request context: the publishing request
			// must not cancel in-flight handlers.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
			defer cancel()
			if err := h(ctx, event); err != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(),
					"error", err.Error(),
				)
			}
		}(h)
	}
}

func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	var firstErr error
	for _, h := range handlers {
		if err := b.runSafe(ctx, h, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (b *InMemoryBus) runSafe(ctx context.Context, h Handler, event Event) (err error) {
	defer b.recoverPanic(event)
	return h(ctx, event)
}

func (b *InMemoryBus) recoverPanic(event Event) {
	if r := recover(); r != nil {
		b.log.Error("event handler panicked",
			"event", event.EventName(),
			"panic", r,
		)
	}
}
