// Package pharmacy provides the on-duty pharmacy search module: sessions,
// the search state machine and its HTTP surface.
package pharmacy

import (
	"net/http"
	"time"

	"eczane_backend/internal/events"
	apphttp "eczane_backend/internal/http"
	"eczane_backend/internal/notification/sse"
	"eczane_backend/internal/pharmacy/controller"
	"eczane_backend/internal/pharmacy/form"
	"eczane_backend/internal/pharmacy/handler"
	"eczane_backend/internal/pharmacy/render"
	"eczane_backend/internal/pharmacy/session"
	"eczane_backend/platform/config"
	"eczane_backend/platform/logger"
	"eczane_backend/platform/validator"
)

const ipLookupTimeout = 5 * time.Second

// ModuleConfig combines the config interfaces the module reads.
type ModuleConfig interface {
	config.SearchConfig
	config.SessionConfig
	config.LocationConfig
}

// Module wires the pharmacy search HTTP routes.
type Module struct {
	handler  *handler.Handler
	sessions *session.Store
	sessCfg  config.SessionConfig
}

// NewModule creates the module. searcher runs the actual searches; in
// production it is an *executor.Executor. State changes reach browsers
// through sseSvc once the notification module forwards bus events to it.
func NewModule(cfg ModuleConfig, searcher controller.Searcher, bus events.Bus, sseSvc *sse.Service, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := form.RegisterValidators(val); err != nil {
		return nil, err
	}

	pages, err := render.NewPages()
	if err != nil {
		return nil, err
	}

	deps := session.Deps{
		Searcher:   searcher,
		Bus:        bus,
		Validator:  val,
		Search:     cfg,
		Location:   cfg,
		HTTPClient: &http.Client{Timeout: ipLookupTimeout},
		Log:        log,
	}
	store := session.NewStore(cfg.GetSessionTTL(), deps.Build, log)

	h := handler.New(pages, render.New(cfg.GetMapsSearchURL()), val, sseSvc, log)

	return &Module{
		handler:  h,
		sessions: store,
		sessCfg:  cfg,
	}, nil
}

func (m *Module) Name() string {
	return "pharmacy"
}

// Sessions exposes the session store so the composition root can run its
// janitor and drain it on shutdown.
func (m *Module) Sessions() *session.Store {
	return m.sessions
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	withSession := session.Middleware(m.sessions, m.sessCfg)

	ctx.Engine.GET("/static/app.js", m.handler.AppJS)

	web := ctx.Engine.Group("")
	web.Use(withSession)
	web.GET("/", m.handler.Index)
	web.POST("/search", m.handler.SubmitForm)

	api := ctx.V1.Group("")
	api.Use(withSession)
	api.POST("/searches", m.handler.CreateSearch)
	api.GET("/searches/state", m.handler.GetState)
	api.GET("/searches/events", session.KeepAlive(m.sessions), m.handler.Events())
	api.POST("/location", m.handler.ReportLocation)
}

var _ apphttp.Module = (*Module)(nil)
