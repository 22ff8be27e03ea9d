// Package events is the in-process bus the search modules announce state
// transitions on. Publishers never learn who listens.
package events

import (
	"context"
	"time"
)

// Event is a named fact stamped with the moment it happened.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp; domain events embed it.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to events it subscribed to. A returned error is logged by
// the bus; it never reaches the publisher.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events by name. Publish returns without waiting for handlers,
// so it is safe to call from a request path or a search goroutine.
type Bus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventName string, handler Handler)
}

// Drainer is a bus whose in-flight deliveries can be awaited at shutdown.
type Drainer interface {
	Wait()
}
