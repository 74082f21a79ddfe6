// Package bus is the cross-view invalidation channel. A mutation in one view
// publishes a topic; every other view holding a cached slice of the same
// resource family refetches to reconcile. Delivery is synchronous and
// best-effort: a handler that refetches may race a concurrent mutation and
// simply reflects whichever state is newest at fetch time.
package bus

import "sync"

// Topic is a typed publish/subscribe channel. Handlers run synchronously, in
// subscription order, on the goroutine that called Publish.
type Topic[T any] struct {
	mu       sync.Mutex
	nextID   int
	handlers []subscription[T]
}

type subscription[T any] struct {
	id      int
	handler func(T)
}

// Subscribe registers a handler and returns the function that removes it.
// Views must call the returned func on teardown.
func (t *Topic[T]) Subscribe(handler func(T)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.handlers = append(t.handlers, subscription[T]{id: id, handler: handler})

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, s := range t.handlers {
			if s.id == id {
				t.handlers = append(t.handlers[:i], t.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers detail to every subscribed handler before returning.
func (t *Topic[T]) Publish(detail T) {
	t.mu.Lock()
	handlers := make([]subscription[T], len(t.handlers))
	copy(handlers, t.handlers)
	t.mu.Unlock()

	for _, s := range handlers {
		s.handler(detail)
	}
}

// CopiesChanged scopes a copies invalidation to one book so detail views can
// ignore signals for unrelated books. A zero BookID means "any book".
type CopiesChanged struct {
	BookID string
}

// Bus carries the topics observed in the system.
type Bus struct {
	// Books fires after creating or editing a book and after any operation
	// that affects its copy counts.
	Books Topic[struct{}]
	// Copies fires after a loan or return changes a copy's availability.
	Copies Topic[CopiesChanged]
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}
