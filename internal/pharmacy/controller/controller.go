// Package controller owns the request lifecycle of one browser session:
// Idle, Loading, Success and Failed, with a sequence number guarding
// against out-of-order results.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"eczane_backend/internal/events"
	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/internal/pharmacy/executor"
	"eczane_backend/platform/logger"
)

// GenericErrorMessage is shown when a failed search carries no message.
const GenericErrorMessage = "An error occurred while fetching pharmacy data. Please try again."

// Searcher runs one search. *executor.Executor satisfies it.
type Searcher interface {
	Search(ctx context.Context, params domain.SearchParams, coords *domain.Coordinates) (executor.Result, error)
}

// Locator reports the coordinates known right now, if any.
type Locator interface {
	Coordinates() (domain.Coordinates, bool)
}

// Controller is the state machine of one session. Submissions are not
// serialized here; the form is responsible for that.
type Controller struct {
	sessionID uuid.UUID
	searcher  Searcher
	locator   Locator
	bus       events.Bus
	log       *logger.Logger

	mu      sync.Mutex
	seq     uint64
	state   State
	changed chan struct{}

	inflight sync.WaitGroup
}

// New creates an idle controller. locator and bus may be nil.
func New(sessionID uuid.UUID, searcher Searcher, locator Locator, bus events.Bus, log *logger.Logger) *Controller {
	return &Controller{
		sessionID: sessionID,
		searcher:  searcher,
		locator:   locator,
		bus:       bus,
		log:       log.WithSessionID(sessionID.String()),
		changed:   make(chan struct{}),
	}
}

// Submit starts a search for params and returns its sequence number. The
// state is Loading when Submit returns; the search itself runs in the
// background and is not cancelled when ctx is.
func (c *Controller) Submit(ctx context.Context, params domain.SearchParams) uint64 {
	coords := c.currentCoordinates()

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = State{Seq: seq, Status: StatusLoading, Params: params}
	c.notifyLocked()
	c.mu.Unlock()

	c.log.SearchEvent(c.sessionID.String(), seq, StatusLoading.String(), 0)
	c.publish(ctx, seq, StatusLoading)

	c.inflight.Add(1)
	go c.run(context.WithoutCancel(ctx), seq, params, coords, time.Now())

	return seq
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether the latest search is still in flight.
func (c *Controller) Loading() bool {
	return c.State().Loading()
}

// Wait blocks until request seq has settled or been superseded, then
// returns the state at that moment. On ctx expiry it returns the current
// state together with ctx.Err().
func (c *Controller) Wait(ctx context.Context, seq uint64) (State, error) {
	for {
		c.mu.Lock()
		st, changed := c.state, c.changed
		c.mu.Unlock()

		if st.settledFor(seq) {
			return st, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Drain blocks until every search started by this controller has returned,
// stale ones included.
func (c *Controller) Drain() {
	c.inflight.Wait()
}

func (c *Controller) run(ctx context.Context, seq uint64, params domain.SearchParams, coords *domain.Coordinates, started time.Time) {
	defer c.inflight.Done()

	res, err := c.searcher.Search(ctx, params, coords)
	if err != nil {
		c.reject(ctx, seq, params, err, started)
		return
	}
	c.resolve(ctx, seq, params, res, started)
}

func (c *Controller) resolve(ctx context.Context, seq uint64, params domain.SearchParams, res executor.Result, started time.Time) {
	resp := res.Response
	c.apply(ctx, State{
		Seq:      seq,
		Status:   StatusSuccess,
		Params:   params,
		Response: &resp,
		Sources:  res.Sources,
	}, started)
}

func (c *Controller) reject(ctx context.Context, seq uint64, params domain.SearchParams, err error, started time.Time) {
	msg := err.Error()
	if msg == "" {
		msg = GenericErrorMessage
	}
	c.apply(ctx, State{
		Seq:    seq,
		Status: StatusFailed,
		Params: params,
		Error:  msg,
	}, started)
}

// apply installs next unless a newer submission has happened since.
func (c *Controller) apply(ctx context.Context, next State, started time.Time) {
	elapsed := time.Since(started)

	c.mu.Lock()
	if next.Seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.log.WithContext(ctx).Debug("dropping stale search result", "seq", next.Seq, "latest", latest)
		c.log.SearchEvent(c.sessionID.String(), next.Seq, "stale", elapsed)
		return
	}
	c.state = next
	c.notifyLocked()
	c.mu.Unlock()

	c.log.SearchEvent(c.sessionID.String(), next.Seq, next.Status.String(), elapsed)
	c.publish(ctx, next.Seq, next.Status)
}

func (c *Controller) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) currentCoordinates() *domain.Coordinates {
	if c.locator == nil {
		return nil
	}
	coords, ok := c.locator.Coordinates()
	if !ok {
		return nil
	}
	return &coords
}

func (c *Controller) publish(ctx context.Context, seq uint64, status Status) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(ctx, events.SearchStateChanged{
		BaseEvent: events.NewBaseEvent(),
		SessionID: c.sessionID,
		Seq:       seq,
		Status:    status.String(),
	})
}
