// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/google/uuid"

	"eczane_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	Drainer     = events.Drainer
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Search Domain Events
// =============================================================================

// SearchStateChangedName identifies SearchStateChanged on the bus.
const SearchStateChangedName = "pharmacy.search.state_changed"

// SearchStateChanged is published whenever a session's search state is
// replaced: on submit (loading) and on settlement (success or failed).
type SearchStateChanged struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Seq       uint64    `json:"seq"`
	Status    string    `json:"status"`
}

func (e SearchStateChanged) EventName() string { return SearchStateChangedName }
