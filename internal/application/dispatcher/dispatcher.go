package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/event"
)

// Dispatcher routes domain events to registered handlers. The engine
// dispatches asynchronously after commit: a failing subscriber never
// rolls back the state transition that produced the event.
type Dispatcher interface {
	// Subscribe registers a handler for an event type
	Subscribe(eventType event.Type, handler Handler)

	// SubscribeNamed registers a handler with a name for debugging
	SubscribeNamed(eventType event.Type, name string, handler Handler)

	// Unsubscribe removes a handler by name
	Unsubscribe(eventType event.Type, name string)

	// Dispatch sends the event to all registered handlers synchronously.
	// Returns the first error encountered (handlers run in order).
	Dispatch(ctx context.Context, evt *event.Event) error

	// DispatchAsync sends the event to handlers without waiting for them
	DispatchAsync(ctx context.Context, evt *event.Event)

	// Close shuts down the dispatcher and waits for async handlers
	Close() error
}

// eventDispatcher is the concrete implementation of Dispatcher
type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   *zap.Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(logger *zap.Logger) Dispatcher {
	return &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event type with an auto-generated name
func (d *eventDispatcher) Subscribe(eventType event.Type, handler Handler) {
	d.mu.RLock()
	name := fmt.Sprintf("handler-%d", len(d.handlers[eventType]))
	d.mu.RUnlock()
	d.SubscribeNamed(eventType, name, handler)
}

// SubscribeNamed registers a handler with a specific name for debugging
func (d *eventDispatcher) SubscribeNamed(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})

	d.logger.Debug("Handler registered",
		zap.String("event_type", eventType.String()),
		zap.String("handler_name", name))
}

// Unsubscribe removes a handler by name
func (d *eventDispatcher) Unsubscribe(eventType event.Type, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	handlers := d.handlers[eventType]
	filtered := make([]HandlerInfo, 0, len(handlers))
	for _, h := range handlers {
		if h.Name != name {
			filtered = append(filtered, h)
		}
	}
	d.handlers[eventType] = filtered
}

// Dispatch sends the event to all registered handlers synchronously
func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return fmt.Errorf("dispatcher is closed")
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Type]
	d.mu.RUnlock()

	for _, info := range handlers {
		if err := d.safeExecute(ctx, evt, info); err != nil {
			d.logger.Error("Event handler failed",
				zap.String("event_type", evt.Type.String()),
				zap.String("event_id", evt.ID),
				zap.String("handler_name", info.Name),
				zap.Error(err))
			return fmt.Errorf("handler %s failed: %w", info.Name, err)
		}
	}

	return nil
}

// DispatchAsync sends the event to handlers without waiting for them
func (d *eventDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	if d.closed.Load() {
		d.logger.Warn("Dropping event, dispatcher is closed",
			zap.String("event_type", evt.Type.String()),
			zap.String("event_id", evt.ID))
		return
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Type]
	d.mu.RUnlock()

	for _, info := range handlers {
		d.wg.Add(1)
		go func(h HandlerInfo) {
			defer d.wg.Done()

			if err := d.safeExecute(ctx, evt, h); err != nil {
				d.logger.Error("Async event handler failed",
					zap.String("event_type", evt.Type.String()),
					zap.String("event_id", evt.ID),
					zap.String("handler_name", h.Name),
					zap.Error(err))
			}
		}(info)
	}
}

// Close shuts down the dispatcher and waits for async handlers
func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}
	d.wg.Wait()
	return nil
}

// safeExecute runs a handler, converting panics to errors
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panicked: %v", p)
		}
	}()
	return info.Handler(ctx, evt)
}
