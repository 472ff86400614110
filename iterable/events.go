package iterable

import "github.com/tailored-agentic-units/stateiter/observability"

const eventSource = "iterable"

const (
	EventCreate      observability.EventType = "iterable.create"
	EventSnapshot    observability.EventType = "iterable.snapshot"
	EventDeliver     observability.EventType = "iterable.deliver"
	EventWait        observability.EventType = "iterable.wait"
	EventOverflow    observability.EventType = "iterable.overflow"
	EventUnsubscribe observability.EventType = "iterable.unsubscribe"
	EventComplete    observability.EventType = "iterable.complete"
)
