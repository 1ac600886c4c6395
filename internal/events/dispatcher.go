package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType EventType, handler EventHandler)
}

// InMemoryDispatcher runs handlers asynchronously so publishers never block
// on a slow or failing consumer.
type InMemoryDispatcher struct {
	mu        sync.RWMutex
	wg        sync.WaitGroup
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() *InMemoryDispatcher {
	return &InMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish hands the event to subscribed handlers on a separate goroutine
// and returns immediately. One failing handler does not stop the others.
func (d *InMemoryDispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			_ = recover()
		}()
		for _, handler := range handlers {
			_ = handler(ctx, event)
		}
	}()
}

// Subscribe registers a handler for the given event type.
func (d *InMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in
// tests.
func (d *InMemoryDispatcher) Wait() {
	d.wg.Wait()
}
