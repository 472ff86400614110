package iterable

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/stateiter/observability"
	"github.com/tailored-agentic-units/stateiter/store"
)

type phase int

const (
	phaseInitial  phase = iota // initial state not produced yet
	phaseBoundary              // between drain passes; liveness is checked here
	phaseDraining              // inside a drain pass, cursor walks the buffer
	phaseTerminal
)

// Option overrides a config-derived setting of New.
type Option func(*options)

type options struct {
	observer observability.Observer
}

// WithObserver overrides the observer named by Config.Observer.
func WithObserver(o observability.Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// Iterable turns a store's listener callbacks into a pull sequence of state
// snapshots. It subscribes once, in New, and stays subscribed until
// Unsubscribe.
type Iterable[S any] struct {
	id          string
	name        string
	store       store.Store[S]
	observer    observability.Observer
	maxBuffered int
	unsubscribe func()
	metrics     metrics
	seq         *Sequence[S]

	mu         sync.Mutex
	buffer     []S
	cursor     int
	wake       *signal
	subscribed bool
	dropped    int
	phase      phase
	done       chan struct{}
}

// New wraps s and subscribes to it immediately, so changes committed before
// the first pull are buffered. No state is read until the first pull.
//
// cfg may be nil, in which case DefaultConfig is used; a non-nil cfg is
// merged over the defaults. A panic raised by s.Subscribe propagates and no
// Iterable is returned.
func New[S any](s store.Store[S], cfg *Config, opts ...Option) (*Iterable[S], error) {
	if s == nil {
		return nil, ErrNilStore
	}

	c := DefaultConfig()
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		c.Merge(cfg)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		obs, err := observability.ResolveObservers(c.Observer)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		o.observer = obs
	}

	it := &Iterable[S]{
		id:          uuid.Must(uuid.NewV7()).String(),
		name:        c.Name,
		store:       s,
		observer:    o.observer,
		maxBuffered: c.MaxBuffered,
		wake:        newSignal(),
		subscribed:  true,
		phase:       phaseInitial,
		done:        make(chan struct{}),
	}
	it.seq = &Sequence[S]{it: it}

	it.unsubscribe = s.Subscribe(it.onChange)

	it.emit(context.Background(), EventCreate, observability.LevelVerbose, map[string]any{
		"max_buffered": it.maxBuffered,
	})

	return it, nil
}

// ID returns the Iterable's UUIDv7 identifier.
func (it *Iterable[S]) ID() string {
	return it.id
}

// Name returns the configured name.
func (it *Iterable[S]) Name() string {
	return it.name
}

// Sequence returns the Iterable's pull cursor. There is one cursor per
// Iterable; every call returns the same one.
func (it *Iterable[S]) Sequence() *Sequence[S] {
	return it.seq
}

// All is shorthand for it.Sequence().All(ctx).
func (it *Iterable[S]) All(ctx context.Context) iter.Seq2[S, error] {
	return it.seq.All(ctx)
}

// Unsubscribe calls the store's unsubscribe handle and marks the Iterable
// as no longer subscribed. Snapshots are no longer buffered once it returns,
// and a consumer suspended in Next is released.
//
// The store's handle is called on every invocation; callers should invoke
// Unsubscribe at most once unless the store's handle tolerates repeats.
// The Iterable itself tolerates repeated calls.
func (it *Iterable[S]) Unsubscribe() {
	it.unsubscribe()

	it.mu.Lock()
	wasSubscribed := it.subscribed
	it.subscribed = false
	if wasSubscribed {
		close(it.done)
	}
	pending := len(it.buffer) - it.cursor
	it.mu.Unlock()

	if wasSubscribed {
		it.emit(context.Background(), EventUnsubscribe, observability.LevelInfo, map[string]any{
			"pending": pending,
		})
	}
}

// Metrics returns a copy of the Iterable's counters.
func (it *Iterable[S]) Metrics() MetricsSnapshot {
	it.mu.Lock()
	pending := len(it.buffer) - it.cursor
	it.mu.Unlock()
	return it.metrics.snapshot(pending)
}

// onChange is the listener registered with the store. The state is read
// before the buffer is touched, so a panicking GetState leaves the buffer as
// it was.
func (it *Iterable[S]) onChange() {
	state := it.store.GetState()

	it.mu.Lock()
	if !it.subscribed {
		it.mu.Unlock()
		return
	}

	pending := len(it.buffer) - it.cursor
	if it.maxBuffered > 0 && pending >= it.maxBuffered {
		it.dropped++
		dropped := it.dropped
		it.wake.resolve()
		it.mu.Unlock()

		it.metrics.dropped.Add(1)
		it.emit(context.Background(), EventOverflow, observability.LevelWarning, map[string]any{
			"dropped": dropped,
			"limit":   it.maxBuffered,
		})
		return
	}

	it.buffer = append(it.buffer, state)
	it.wake.resolve()
	it.mu.Unlock()

	it.metrics.buffered.Add(1)
	it.emit(context.Background(), EventSnapshot, observability.LevelVerbose, map[string]any{
		"pending": pending + 1,
	})
}

func (it *Iterable[S]) emit(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	data["iterable_id"] = it.id
	data["name"] = it.name

	it.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    eventSource,
		Data:      data,
	})
}
