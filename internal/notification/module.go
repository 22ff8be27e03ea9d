// Package notification delivers domain events to the browsers that care
// about them. It subscribes to the event bus so that the search modules never
// need to know about open streams.
package notification

import (
	"context"

	"eczane_backend/internal/events"
	"eczane_backend/internal/notification/sse"
	"eczane_backend/platform/logger"
)

// Module routes domain events to notification channels.
type Module struct {
	sse *sse.Service
	log *logger.Logger
}

// New creates the module with its own SSE service.
func New(log *logger.Logger) *Module {
	return &Module{
		sse: sse.New(log),
		log: log,
	}
}

func (m *Module) Name() string { return "notification" }

// SSE returns the stream service so HTTP modules can mount its handler.
func (m *Module) SSE() *sse.Service { return m.sse }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SearchStateChangedName, m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SearchStateChanged:
		return m.handleSearchStateChanged(ctx, e)
	default:
		m.log.Warn("notification module received unhandled event", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleSearchStateChanged(_ context.Context, e events.SearchStateChanged) error {
	m.sse.Publish(e.SessionID, sse.Event{
		Type:      sse.EventStateChanged,
		SessionID: e.SessionID,
		Seq:       e.Seq,
		Status:    e.Status,
		At:        e.OccurredAt(),
	})
	return nil
}

var _ events.Handler = (*Module)(nil)
