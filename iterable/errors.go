package iterable

import (
	"errors"
	"fmt"
)

// Sentinel errors for iterable construction and delivery.
var (
	ErrNilStore       = errors.New("store is nil")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrBufferOverflow = errors.New("buffer overflow")
)

// OverflowError reports snapshots dropped because the pending buffer was at
// Config.MaxBuffered. It is returned once by Next, at the first iteration
// boundary after the drop; the sequence stays live afterwards.
type OverflowError struct {
	Dropped int
	Limit   int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("buffer overflow: dropped %d snapshots (limit %d)", e.Dropped, e.Limit)
}

func (e *OverflowError) Unwrap() error {
	return ErrBufferOverflow
}
