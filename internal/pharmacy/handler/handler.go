// Package handler exposes the pharmacy search over HTTP: the server-rendered
// page, the JSON API and the state change stream.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eczane_backend/internal/location"
	"eczane_backend/internal/notification/sse"
	"eczane_backend/internal/pharmacy/controller"
	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/internal/pharmacy/form"
	"eczane_backend/internal/pharmacy/render"
	"eczane_backend/internal/pharmacy/session"
	"eczane_backend/internal/pharmacy/transport"
	"eczane_backend/platform/apperr"
	"eczane_backend/platform/httpkit"
	"eczane_backend/platform/logger"
	"eczane_backend/platform/validator"
)

const (
	msgInvalidRequest = "invalid request body"
	msgNoSession      = "no session"
	msgSearchRunning  = "A search is already running. Please wait for it to finish."
)

// Handler serves the pharmacy search endpoints.
type Handler struct {
	pages    *render.Pages
	renderer *render.Renderer
	val      *validator.Validator
	sse      *sse.Service
	log      *logger.Logger
}

// New creates a handler.
func New(pages *render.Pages, renderer *render.Renderer, val *validator.Validator, sseSvc *sse.Service, log *logger.Logger) *Handler {
	return &Handler{
		pages:    pages,
		renderer: renderer,
		val:      val,
		sse:      sseSvc,
		log:      log,
	}
}

// Index handles GET /
func (h *Handler) Index(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Internal(msgNoSession))
		return
	}
	c.Render(http.StatusOK, h.pages.IndexRender(h.pageData(sess, sess.Controller.State())))
}

// SubmitForm handles POST /search. It waits for the search to settle, bounded
// by the request, then redirects back to the page.
func (h *Handler) SubmitForm(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Internal(msgNoSession))
		return
	}

	var in form.Input
	if err := c.ShouldBind(&in); err != nil {
		h.renderNotice(c, sess, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	seq, err := sess.Form.Submit(c.Request.Context(), in)
	if err != nil {
		status, notice := http.StatusBadRequest, "Please check the search fields."
		if errors.Is(err, form.ErrSubmitDisabled) {
			status, notice = http.StatusConflict, msgSearchRunning
		}
		h.renderNotice(c, sess, status, notice)
		return
	}

	if _, err := sess.Controller.Wait(c.Request.Context(), seq); err != nil {
		h.log.WithContext(c.Request.Context()).Debug("form submit returned before search settled", "seq", seq, "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// AppJS handles GET /static/app.js
func (h *Handler) AppJS(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", render.AppJS())
}

// CreateSearch handles POST /api/v1/searches
func (h *Handler) CreateSearch(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Internal(msgNoSession))
		return
	}

	var req transport.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err))
		return
	}

	seq, err := sess.Form.Submit(c.Request.Context(), form.Input{
		City:     req.City,
		District: req.District,
		Date:     req.Date,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Accepted(c, transport.SearchAccepted{
		Seq:   seq,
		State: h.stateResponse(sess.Controller.State()),
	})
}

// GetState handles GET /api/v1/searches/state
func (h *Handler) GetState(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Internal(msgNoSession))
		return
	}
	httpkit.OK(c, h.stateResponse(sess.Controller.State()))
}

// Events handles GET /api/v1/searches/events
func (h *Handler) Events() gin.HandlerFunc {
	return h.sse.Handler(
		func(c *gin.Context) (uuid.UUID, bool) {
			sess, ok := session.FromContext(c)
			if !ok {
				return uuid.Nil, false
			}
			return sess.ID, true
		},
		func(c *gin.Context) (sse.Event, bool) {
			sess, ok := session.FromContext(c)
			if !ok {
				return sse.Event{}, false
			}
			st := sess.Controller.State()
			return sse.Event{
				Type:      sse.EventStateChanged,
				SessionID: sess.ID,
				Seq:       st.Seq,
				Status:    st.Status.String(),
			}, true
		},
	)
}

// ReportLocation handles POST /api/v1/location
func (h *Handler) ReportLocation(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Internal(msgNoSession))
		return
	}

	var req transport.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err))
		return
	}

	if req.Denied {
		sess.Location.Fail(location.ErrDenied)
		_, located := sess.Location.Coordinates()
		httpkit.OK(c, transport.LocationResponse{Stored: false, Located: located})
		return
	}

	if req.Latitude == nil || req.Longitude == nil {
		httpkit.HandleError(c, apperr.Validation("latitude and longitude are required").
			WithDetails(map[string]string{"latitude": "required", "longitude": "required"}))
		return
	}

	coords := domain.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := h.val.Struct(coords); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "coordinates out of range", err).
			WithDetails(validator.FieldErrors(err)))
		return
	}

	stored := sess.Location.Offer(coords)
	httpkit.OK(c, transport.LocationResponse{Stored: stored, Located: true})
}

func (h *Handler) renderNotice(c *gin.Context, sess *session.Session, status int, notice string) {
	data := h.pageData(sess, sess.Controller.State())
	data.Notice = notice
	c.Render(status, h.pages.IndexRender(data))
}

func (h *Handler) pageData(sess *session.Session, st controller.State) render.PageData {
	data := render.PageData{
		Form:    sess.Form.View(st.Loading()),
		Status:  st.Status.String(),
		Seq:     st.Seq,
		Loading: st.Loading(),
		Error:   st.Error,
		Sources: render.RenderSources(st.Sources),
		Located: locationSettled(sess),
	}
	if st.Response != nil {
		view := h.renderer.Render(*st.Response)
		data.Results = &view
	}
	return data
}

func (h *Handler) stateResponse(st controller.State) transport.StateResponse {
	resp := transport.StateResponse{
		Seq:     st.Seq,
		Status:  st.Status.String(),
		Sources: render.RenderSources(st.Sources),
		Error:   st.Error,
	}
	if st.Status != controller.StatusIdle {
		resp.Params = &transport.SearchParams{
			City:     st.Params.City,
			District: st.Params.District,
			Date:     st.Params.Date,
		}
	}
	if st.Response != nil {
		view := h.renderer.Render(*st.Response)
		resp.Results = &view
	}
	return resp
}

func locationSettled(sess *session.Session) bool {
	select {
	case <-sess.Location.Settled():
		return true
	default:
		return false
	}
}
