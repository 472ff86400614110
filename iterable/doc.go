// Package iterable bridges a push-based store into a pull-based sequence of
// state snapshots.
//
// A store (see package store) notifies listeners synchronously after every
// commit. An Iterable registers one listener when it is created, buffers a
// snapshot per notification, and hands the snapshots out in order through
// its Sequence.
//
// # Usage
//
//	s := counter.NewStore()
//	it, err := iterable.New(s, nil)
//	if err != nil {
//	    return err
//	}
//
//	go func() {
//	    s.Dispatch(counter.Increment)
//	    s.Dispatch(counter.Increment)
//	}()
//
//	// the state at the first pull, then one value per dispatch
//	received := 0
//	for state, err := range it.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(state)
//	    if received++; received == 3 {
//	        it.Unsubscribe()
//	    }
//	}
//
// Pull-style consumers call Next directly:
//
//	seq := it.Sequence()
//	state, ok, err := seq.Next(ctx)
//
// # Delivery
//
// The first value is the store's state at the first pull. After that every
// listener invocation yields exactly one value, in invocation order, with no
// coalescing of equal states. Snapshots appended while the consumer is
// draining are delivered in the same pass.
//
// # Termination
//
// Unsubscribe is the only way to end a sequence. If the consumer is in the
// middle of a drain pass it still receives the rest of that pass; otherwise
// the next pull reports the end (ok == false). A consumer blocked in Next
// is released. Context cancellation only aborts the current Next call.
//
// # Buffering
//
// By default the buffer is unbounded. Config.MaxBuffered caps the number of
// pending snapshots; snapshots over the cap are dropped, and Next reports
// the drop once with an *OverflowError after the kept snapshots are
// delivered.
//
// # Concurrency
//
// The store may be mutated from any goroutine. Only one goroutine should
// pull from a given Iterable. Store failures are not recovered: a panic in
// GetState propagates to whoever triggered the read.
package iterable
