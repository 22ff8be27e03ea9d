// Package location provides the best-effort user position used to bias
// pharmacy searches. Failures are never surfaced to the user.
package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/logger"
)

const defaultReadTimeout = 10 * time.Second

var (
	// ErrDenied is reported when the user refused to share a position.
	ErrDenied = errors.New("location permission denied")
	// ErrUnavailable is reported when no position could be determined.
	ErrUnavailable = errors.New("location unavailable")
)

// Source yields the current position once.
type Source interface {
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (domain.Coordinates, error)

// CurrentPosition calls f(ctx).
func (f SourceFunc) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	return f(ctx)
}

// Provider stores at most one position per session and never re-requests
// it. A position read by Start is an estimate: a position reported through
// Offer replaces it, and a denial discards it. Among reported positions the
// first wins. After a denial nothing is stored any more.
type Provider struct {
	mu     sync.Mutex
	pos    *domain.Coordinates
	guess  bool
	denied bool

	startOnce   sync.Once
	settleOnce  sync.Once
	settled     chan struct{}
	readTimeout time.Duration
	log         *logger.Logger
}

// NewProvider creates an empty provider.
func NewProvider(log *logger.Logger) *Provider {
	return &Provider{
		settled:     make(chan struct{}),
		readTimeout: defaultReadTimeout,
		log:         log,
	}
}

// Start performs the one asynchronous read from src. Later calls are no-ops.
// It returns immediately.
func (p *Provider) Start(ctx context.Context, src Source) {
	p.startOnce.Do(func() {
		go p.read(context.WithoutCancel(ctx), src)
	})
}

func (p *Provider) read(ctx context.Context, src Source) {
	ctx, cancel := context.WithTimeout(ctx, p.readTimeout)
	defer cancel()

	coords, err := src.CurrentPosition(ctx)
	if err != nil {
		p.Fail(err)
		return
	}

	p.mu.Lock()
	if !p.denied && p.pos == nil {
		p.pos, p.guess = &coords, true
	}
	p.mu.Unlock()
	p.settle()
}

// Offer stores a position reported by the user. It replaces an estimate but
// not an earlier report, and is ignored after a denial. Reports whether
// coords was stored.
func (p *Provider) Offer(coords domain.Coordinates) bool {
	defer p.settle()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.denied || (p.pos != nil && !p.guess) {
		return false
	}
	p.pos, p.guess = &coords, false
	return true
}

// Fail records that a read produced no position. The error is only logged.
// ErrDenied also drops any stored position and blocks later ones.
func (p *Provider) Fail(err error) {
	p.log.Debug("location read failed", "error", err)
	if errors.Is(err, ErrDenied) {
		p.mu.Lock()
		p.pos, p.guess, p.denied = nil, false, true
		p.mu.Unlock()
	}
	p.settle()
}

// Coordinates returns the stored position, if any.
func (p *Provider) Coordinates() (domain.Coordinates, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pos == nil {
		return domain.Coordinates{}, false
	}
	return *p.pos, true
}

// Settled is closed once the first read, offer or failure has completed.
func (p *Provider) Settled() <-chan struct{} {
	return p.settled
}

func (p *Provider) settle() {
	p.settleOnce.Do(func() { close(p.settled) })
}
