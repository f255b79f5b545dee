// Package events abstracts push streams behind a Subscribe contract so that
// the same handlers can be fed by a network bridge, a local camera or a test.
package events

import "sync"

// Handler consumes one event.
type Handler[T any] func(T)

// Source is a push stream of events of type T.
type Source[T any] interface {
	// Subscribe registers h and returns a function that removes it.
	Subscribe(h Handler[T]) (unsubscribe func())
}

// Feed is an in-process Source. Publish delivers synchronously, in
// subscription order, on the caller's goroutine.
type Feed[T any] struct {
	mu     sync.RWMutex
	nextID int
	order  []int
	subs   map[int]Handler[T]
}

// NewFeed creates an empty feed.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[int]Handler[T])}
}

// Subscribe implements Source.
func (f *Feed[T]) Subscribe(h Handler[T]) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = h
	f.order = append(f.order, id)
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

func (f *Feed[T]) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i:i], f.order[i+1:]...)
			break
		}
	}
}

// Publish delivers v to every current subscriber.
func (f *Feed[T]) Publish(v T) {
	f.mu.RLock()
	handlers := make([]Handler[T], 0, len(f.order))
	for _, id := range f.order {
		handlers = append(handlers, f.subs[id])
	}
	f.mu.RUnlock()

	for _, h := range handlers {
		h(v)
	}
}

// Len returns the number of subscribers.
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(h Handler[T]) func()

// Subscribe implements Source.
func (fn SourceFunc[T]) Subscribe(h Handler[T]) func() {
	return fn(h)
}
