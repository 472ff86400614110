package store

import "sync"

type listenerEntry struct {
	id int
	fn func()
}

// Reducer is a dispatch/reduce store. Each Dispatch replaces the state with
// reduce(state, action) and then notifies listeners.
type Reducer[S, A any] struct {
	reduce func(S, A) S

	mu        sync.RWMutex
	state     S
	listeners []listenerEntry
	nextID    int

	// serializes Dispatch so listeners observe commits one at a time
	dispatchMu sync.Mutex
}

// NewReducer returns a Reducer holding initial.
func NewReducer[S, A any](reduce func(S, A) S, initial S) *Reducer[S, A] {
	return &Reducer[S, A]{
		reduce: reduce,
		state:  initial,
	}
}

// GetState returns the last committed state.
func (r *Reducer[S, A]) GetState() S {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Dispatch commits reduce(state, action) and then calls every listener
// registered at commit time, in registration order. Listeners run without
// the state lock held, so they may call GetState. A listener removed while
// a dispatch is in flight still receives that dispatch.
//
// Dispatches are serialized. A listener must not call Dispatch on the same
// store; it would deadlock.
func (r *Reducer[S, A]) Dispatch(action A) {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	r.mu.Lock()
	r.state = r.reduce(r.state, action)
	listeners := make([]listenerEntry, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}

// Subscribe registers listener. The returned handle is safe to call more
// than once; only the first call has an effect.
func (r *Reducer[S, A]) Subscribe(listener func()) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners = append(r.listeners, listenerEntry{id: id, fn: listener})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, l := range r.listeners {
				if l.id == id {
					r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Listeners returns the number of registered listeners.
func (r *Reducer[S, A]) Listeners() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}
