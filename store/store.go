// Package store defines the minimal capability a push-based state holder must
// offer to be wrapped by the iterable package: a synchronous read of the
// current state and a listener registration fired after every commit.
//
// The package also ships Reducer, a small dispatch/reduce store used by the
// tests and the stateiter CLI. Any type with the same two methods works.
package store

// Store is a readable, subscribable state holder.
//
// GetState must be side-effect free and callable at any time, including from
// inside a listener. Subscribe registers listener and returns a handle that
// permanently removes it. Listeners run synchronously, once per committed
// mutation, in registration order, after the mutation is visible through
// GetState.
type Store[S any] interface {
	GetState() S
	Subscribe(listener func()) (unsubscribe func())
}

// Funcs adapts a pair of functions into a Store.
type Funcs[S any] struct {
	Get func() S
	Sub func(listener func()) func()
}

// GetState calls Get.
func (f Funcs[S]) GetState() S {
	return f.Get()
}

// Subscribe calls Sub.
func (f Funcs[S]) Subscribe(listener func()) func() {
	return f.Sub(listener)
}
