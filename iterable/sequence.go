package iterable

import (
	"context"
	"iter"

	"github.com/tailored-agentic-units/stateiter/observability"
)

// Sequence is the single pull cursor of an Iterable. It must be driven by one
// consumer at a time.
type Sequence[S any] struct {
	it *Iterable[S]
}

// Next returns the next state.
//
// The first call returns the store's state at that moment, unless the
// Iterable was already unsubscribed. Later calls return buffered snapshots
// in the order their listener invocations happened, blocking while the
// buffer is empty and the Iterable is subscribed. Once the Iterable is
// unsubscribed Next returns ok == false with a nil error, and keeps doing
// so.
//
// A non-nil error is either ctx.Err(), when ctx ends while Next is blocked,
// or an *OverflowError. Neither ends the sequence; the next call resumes
// where this one left off.
func (q *Sequence[S]) Next(ctx context.Context) (S, bool, error) {
	var zero S
	it := q.it

	for {
		it.mu.Lock()

		switch it.phase {
		case phaseTerminal:
			it.mu.Unlock()
			return zero, false, nil

		case phaseInitial:
			if !it.subscribed {
				it.phase = phaseBoundary
				it.mu.Unlock()
				continue
			}
			it.mu.Unlock()

			// a panic here leaves the phase untouched; the retry reads again
			state := it.store.GetState()

			it.mu.Lock()
			it.phase = phaseBoundary
			it.mu.Unlock()

			it.delivered(ctx, "initial")
			return state, true, nil

		case phaseDraining:
			// len is re-read on every call so snapshots appended during the
			// pass are delivered in the same pass
			if it.cursor < len(it.buffer) {
				state := it.buffer[it.cursor]
				it.cursor++
				it.mu.Unlock()

				it.delivered(ctx, "buffer")
				return state, true, nil
			}

			clear(it.buffer)
			it.buffer = it.buffer[:0]
			it.cursor = 0
			it.wake = newSignal()
			it.phase = phaseBoundary
			it.mu.Unlock()

		case phaseBoundary:
			// drops happened after the kept snapshots, so they are
			// reported only once the kept ones are drained
			if it.dropped > 0 && (len(it.buffer) == 0 || !it.subscribed) {
				err := &OverflowError{Dropped: it.dropped, Limit: it.maxBuffered}
				it.dropped = 0
				it.mu.Unlock()
				return zero, false, err
			}

			if !it.subscribed {
				it.phase = phaseTerminal
				it.mu.Unlock()

				it.emit(ctx, EventComplete, observability.LevelInfo, map[string]any{
					"delivered": it.metrics.delivered.Load(),
				})
				return zero, false, nil
			}

			wake := it.wake
			if wake.isResolved() {
				it.phase = phaseDraining
				it.mu.Unlock()
				continue
			}
			done := it.done
			it.mu.Unlock()

			it.emit(ctx, EventWait, observability.LevelVerbose, map[string]any{})

			select {
			case <-wake.done():
			case <-done:
			case <-ctx.Done():
				return zero, false, ctx.Err()
			}

			// Snapshots buffered before Unsubscribe are drained even when
			// done won the select; otherwise the boundary check terminates.
			it.mu.Lock()
			if wake.isResolved() {
				it.phase = phaseDraining
			}
			it.mu.Unlock()
		}
	}
}

// All returns a range-over-func iterator over the sequence. Iteration ends
// when the sequence terminates, when the loop body breaks, or after the
// first error is yielded.
func (q *Sequence[S]) All(ctx context.Context) iter.Seq2[S, error] {
	return func(yield func(S, error) bool) {
		for {
			state, ok, err := q.Next(ctx)
			if err != nil {
				yield(state, err)
				return
			}
			if !ok {
				return
			}
			if !yield(state, nil) {
				return
			}
		}
	}
}

func (it *Iterable[S]) delivered(ctx context.Context, from string) {
	n := it.metrics.delivered.Add(1)
	it.emit(ctx, EventDeliver, observability.LevelVerbose, map[string]any{
		"from":      from,
		"delivered": n,
	})
}
