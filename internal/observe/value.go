// Package observe provides a small publish/subscribe value holder.
package observe

import "sync"

// Value holds a value of type T and notifies subscribers on every Set.
// Listeners are called synchronously, in subscription order, after the new
// value is stored. They only see changes made after they subscribed.
type Value[T any] struct {
	mu        sync.Mutex
	v         T
	nextID    int
	listeners []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// NewValue creates a Value holding v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.v
}

// Set stores v and notifies all listeners, even if v equals the old value.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	o.v = v
	ls := make([]listener[T], len(o.listeners))
	copy(ls, o.listeners)
	o.mu.Unlock()

	for _, l := range ls {
		l.fn(v)
	}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (o *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, listener[T]{id: id, fn: fn})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, l := range o.listeners {
			if l.id == id {
				o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribers.
func (o *Value[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}
