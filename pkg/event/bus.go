package event

import (
	"reflect"
	"sync"
)

// Listener observes the model.
//
// Unsubscribe identifies listeners by equality. Listeners that are not
// comparable, such as structs holding funcs, can be subscribed but never
// unsubscribed; use pointers.
type Listener interface {
	// Handle is called for every notification.
	Handle(Event)
	// Answer is called for every query.
	Answer(Query) bool
}

// Bus is an ordered registry of listeners. The zero value is an empty Bus
// ready to use.
//
// The mutex of the Bus is never held while a listener runs, so listeners may
// subscribe or unsubscribe listeners, and call back into the model.
type Bus struct {
	mutex     sync.Mutex
	listeners []Listener
}

// Subscribe appends a listener. Duplicates are not detected.
func (b *Bus) Subscribe(l Listener) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.listeners = append(b.listeners, l)
}

// Unsubscribe removes the first occurrence of a listener. It does nothing if
// the listener is not subscribed.
func (b *Bus) Unsubscribe(l Listener) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for i, subscribed := range b.listeners {
		if sameListener(subscribed, l) {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribed listeners.
func (b *Bus) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.listeners)
}

// Notify calls the Handle method of every listener, in subscription order.
func (b *Bus) Notify(e Event) {
	for _, l := range b.snapshot() {
		l.Handle(e)
	}
}

// Poll asks every listener the question, in subscription order, and returns
// the logical AND of all answers. Every listener is asked even after one has
// answered false. With no listeners, Poll returns true.
func (b *Bus) Poll(q Query) bool {
	result := true
	for _, l := range b.snapshot() {
		if !l.Answer(q) {
			result = false
		}
	}
	return result
}

func (b *Bus) snapshot() []Listener {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]Listener(nil), b.listeners...)
}

// Reports whether a and b are the same listener, without panicking on
// values that cannot be compared.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() {
		return false
	}
	return va.Equal(vb)
}

// Funcs adapts plain functions to the Listener interface. A nil HandleFunc
// ignores notifications; a nil AnswerFunc answers true.
//
// Only *Funcs implements Listener, so that it can be unsubscribed.
type Funcs struct {
	HandleFunc func(Event)
	AnswerFunc func(Query) bool
}

func (f *Funcs) Handle(e Event) {
	if f.HandleFunc != nil {
		f.HandleFunc(e)
	}
}

func (f *Funcs) Answer(q Query) bool {
	if f.AnswerFunc == nil {
		return true
	}
	return f.AnswerFunc(q)
}
