package observer

import "sync"

// Callback receives the value passed to Notify.
type Callback[T any] func(T)

type entry[T any] struct {
	fn      Callback[T]
	removed bool
}

// Hub delivers values to registered callbacks synchronously, in registration
// order. Notify does not return until every callback registered at the time
// of the call has run.
//
// Hub is safe for concurrent use, but callers that need a total order across
// notifications must serialize their Notify calls themselves.
type Hub[T any] struct {
	mu      sync.Mutex
	entries []*entry[T]
}

// New creates an empty hub.
func New[T any]() *Hub[T] {
	return &Hub[T]{}
}

// Subscribe registers fn and returns its unsubscribe function. The returned
// function is idempotent and safe to call from within any callback, including
// fn itself during its own invocation.
//
// A nil fn is ignored and yields a no-op unsubscribe.
func (h *Hub[T]) Subscribe(fn Callback[T]) func() {
	if fn == nil {
		return func() {}
	}

	e := &entry[T]{fn: fn}
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			e.removed = true
			for i, cur := range h.entries {
				if cur == e {
					h.entries = append(h.entries[:i], h.entries[i+1:]...)
					break
				}
			}
		})
	}
}

// Notify invokes every callback registered before the call, in registration
// order, passing each the same value. Callbacks unsubscribed mid-iteration
// (by themselves or by an earlier callback) are skipped; callbacks registered
// mid-iteration are not invoked until the next Notify.
//
// Callbacks run outside the hub's internal lock, so they may subscribe and
// unsubscribe freely.
func (h *Hub[T]) Notify(v T) {
	h.mu.Lock()
	snapshot := make([]*entry[T], len(h.entries))
	copy(snapshot, h.entries)
	h.mu.Unlock()

	for _, e := range snapshot {
		h.mu.Lock()
		skip := e.removed
		h.mu.Unlock()
		if skip {
			continue
		}
		e.fn(v)
	}
}

// Len reports the number of registered callbacks.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
