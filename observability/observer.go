// Package observability carries the event model shared by the stateiter
// packages. Components emit Events to an Observer; what happens to them
// (structured logging, capture in tests, fan-out) is decided by the caller.
//
// Level values follow the OpenTelemetry SeverityNumber ranges so events can
// be forwarded to an OTel pipeline without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is the severity of an Event.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps the level onto the closest slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event. Packages declare their own constants,
// e.g. "iterable.snapshot".
type EventType string

// Event is a single observable occurrence. Data holds telemetry about the
// occurrence (counts, identifiers), never the state values themselves.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events. Implementations must not block the caller for
// long and must be safe for concurrent use: iterable events are emitted from
// both the store's mutating goroutine and the consumer's goroutine.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
