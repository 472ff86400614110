package iterable

import "sync/atomic"

// MetricsSnapshot is a point-in-time copy of an Iterable's counters.
type MetricsSnapshot struct {
	Buffered  int64 // snapshots appended by the listener
	Delivered int64 // values returned by Next, initial state included
	Dropped   int64 // snapshots rejected by the MaxBuffered limit
	Pending   int   // buffered snapshots not yet delivered
}

type metrics struct {
	buffered  atomic.Int64
	delivered atomic.Int64
	dropped   atomic.Int64
}

func (m *metrics) snapshot(pending int) MetricsSnapshot {
	return MetricsSnapshot{
		Buffered:  m.buffered.Load(),
		Delivered: m.delivered.Load(),
		Dropped:   m.dropped.Load(),
		Pending:   pending,
	}
}
