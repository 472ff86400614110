package iterable

import "sync/atomic"

// signal is a single-resolution wakeup. Resolving closes the channel once;
// later resolves are no-ops. A resolved signal is never reset, the owner
// installs a fresh one instead.
type signal struct {
	ch       chan struct{}
	resolved atomic.Int32
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{})}
}

func (s *signal) resolve() {
	if s.resolved.CompareAndSwap(0, 1) {
		close(s.ch)
	}
}

func (s *signal) isResolved() bool {
	return s.resolved.Load() == 1
}

func (s *signal) done() <-chan struct{} {
	return s.ch
}
