// Package session keeps one search context per browser: a controller,
// a location provider and a form, identified by a cookie.
package session

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"eczane_backend/internal/events"
	"eczane_backend/internal/location"
	"eczane_backend/internal/pharmacy/controller"
	"eczane_backend/internal/pharmacy/form"
	"eczane_backend/platform/config"
	"eczane_backend/platform/logger"
	"eczane_backend/platform/validator"
)

// Session is the state of one browser.
type Session struct {
	ID         uuid.UUID
	Controller *controller.Controller
	Location   *location.Provider
	Form       *form.Form

	lastSeen atomic.Int64
	held     atomic.Int32
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen is the time of the most recent request of this session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Deps are the collaborators every new session is wired to.
type Deps struct {
	Searcher   controller.Searcher
	Bus        events.Bus
	Validator  *validator.Validator
	Search     config.SearchConfig
	Location   config.LocationConfig
	HTTPClient *http.Client
	Log        *logger.Logger
}

// Build creates a session for a browser first seen from clientIP. When IP
// geolocation is configured, the one location read starts right away.
func (d Deps) Build(id uuid.UUID, clientIP string) *Session {
	provider := location.NewProvider(d.Log)
	ctrl := controller.New(id, d.Searcher, provider, d.Bus, d.Log)

	s := &Session{
		ID:         id,
		Controller: ctrl,
		Location:   provider,
		Form:       form.New(ctrl, d.Validator, d.Search),
	}

	if d.Location != nil && d.Location.IsIPGeolocationEnabled() && clientIP != "" {
		src := location.NewIPSource(d.Location.GetIPGeolocationURL(), clientIP, d.HTTPClient, d.Log)
		provider.Start(context.Background(), src)
	}
	return s
}
