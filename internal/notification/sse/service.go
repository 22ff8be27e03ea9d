// Package sse provides Server-Sent Events support for real-time notifications.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eczane_backend/platform/logger"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventConnected    EventType = "connected"
	EventStateChanged EventType = "state_changed"
)

const clientBuffer = 16

// Event represents an SSE event payload
type Event struct {
	Type      EventType `json:"type"`
	SessionID uuid.UUID `json:"sessionId,omitempty"`
	Seq       uint64    `json:"seq"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at,omitzero"`
}

// client represents a connected SSE client
type client struct {
	sessionID uuid.UUID
	events    chan Event
}

// Service manages SSE connections and event broadcasting
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*client // sessionID -> clients
	log     *logger.Logger
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[uuid.UUID][]*client),
		log:     log,
	}
}

// addClient registers a new client connection
func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.sessionID] = append(s.clients[c.sessionID], c)
}

// removeClient unregisters a client connection
func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.sessionID]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.sessionID] = append(clients[:i:i], clients[i+1:]...)
			break
		}
	}
	if len(s.clients[c.sessionID]) == 0 {
		delete(s.clients, c.sessionID)
	}
}

// Publish sends an event to every client of a session. A client whose buffer
// is full misses the event.
func (s *Service) Publish(sessionID uuid.UUID, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := s.clients[sessionID]
	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse event buffer full", "session_id", sessionID.String(), "event", string(event.Type))
		}
	}

	s.log.Debug("sse event published", "event", string(event.Type), "session_id", sessionID.String(), "clients", len(clients))
}

// ClientCount reports the number of open streams for a session.
func (s *Service) ClientCount(sessionID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[sessionID])
}

// Handler returns a Gin handler for SSE connections. snapshot, when it
// returns true, is sent right after the connected event so a client never
// misses a transition that happened before it subscribed.
func (s *Service) Handler(getSessionID func(*gin.Context) (uuid.UUID, bool), snapshot func(*gin.Context) (Event, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := getSessionID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		// Set SSE headers
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			sessionID: sessionID,
			events:    make(chan Event, clientBuffer),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent(string(EventConnected), gin.H{"sessionId": sessionID})
		if snapshot != nil {
			if ev, ok := snapshot(c); ok {
				writeEvent(c, ev)
			}
		}
		c.Writer.Flush()

		log := s.log.WithContext(c.Request.Context())
		log.Debug("sse client connected")

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				log.Debug("sse client disconnected")
				return
			case event := <-cl.events:
				writeEvent(c, event)
				c.Writer.Flush()
			}
		}
	}
}

func writeEvent(c *gin.Context, event Event) {
	data, _ := json.Marshal(event)
	c.SSEvent(string(event.Type), string(data))
}
