// ABOUTME: Typed publish/subscribe bus used for graphic placement and resize events
// ABOUTME: Goroutine-safe; handlers run synchronously on the publishing goroutine

package eventbus

import "sync"

// Handler is a callback invoked with each published event.
type Handler[T any] func(T)

// Bus delivers events of one type to its subscribers. Controls subscribe
// to placement buses to invalidate cached renders; the terminal resize
// listener publishes on one.
type Bus[T any] struct {
	mu       sync.RWMutex
	handlers map[int]Handler[T]
	nextID   int
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{handlers: make(map[int]Handler[T])}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish invokes every subscribed handler with the event, in arbitrary
// order. The lock is not held during callbacks, so a handler may
// subscribe or unsubscribe without deadlocking.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	snapshot := make([]Handler[T], 0, len(b.handlers))
	for _, h := range b.handlers {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

// Count returns the number of live subscriptions.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
