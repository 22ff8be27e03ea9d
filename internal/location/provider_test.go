package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/logger"
)

func waitSettled(t *testing.T, p *Provider) {
	t.Helper()
	select {
	case <-p.Settled():
	case <-time.After(2 * time.Second):
		t.Fatal("provider never settled")
	}
}

func TestStartStoresCoordinates(t *testing.T) {
	p := NewProvider(logger.Discard())
	want := domain.Coordinates{Latitude: 41.01, Longitude: 28.97}

	p.Start(context.Background(), SourceFunc(func(context.Context) (domain.Coordinates, error) {
		return want, nil
	}))
	waitSettled(t, p)

	got, ok := p.Coordinates()
	if !ok || got != want {
		t.Fatalf("Coordinates() = %v, %v; want %v, true", got, ok, want)
	}
}

func TestStartReadsOnlyOnce(t *testing.T) {
	p := NewProvider(logger.Discard())
	calls := make(chan struct{}, 4)
	src := SourceFunc(func(context.Context) (domain.Coordinates, error) {
		calls <- struct{}{}
		return domain.Coordinates{Latitude: 1, Longitude: 2}, nil
	})

	p.Start(context.Background(), src)
	p.Start(context.Background(), src)
	p.Start(context.Background(), src)
	waitSettled(t, p)

	// Give a stray second read a chance to show up.
	time.Sleep(20 * time.Millisecond)
	if n := len(calls); n != 1 {
		t.Fatalf("source called %d times, want 1", n)
	}
}

func TestStartDoesNotBlock(t *testing.T) {
	p := NewProvider(logger.Discard())
	release := make(chan struct{})
	defer close(release)

	done := make(chan struct{})
	go func() {
		p.Start(context.Background(), SourceFunc(func(ctx context.Context) (domain.Coordinates, error) {
			<-release
			return domain.Coordinates{}, ErrUnavailable
		}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start blocked on the source")
	}
	if _, ok := p.Coordinates(); ok {
		t.Fatal("coordinates must be absent while the read is pending")
	}
}

func TestDeniedLeavesNoCoordinates(t *testing.T) {
	p := NewProvider(logger.Discard())
	p.Start(context.Background(), SourceFunc(func(context.Context) (domain.Coordinates, error) {
		return domain.Coordinates{}, ErrDenied
	}))
	waitSettled(t, p)

	if c, ok := p.Coordinates(); ok {
		t.Fatalf("expected no coordinates after denial, got %v", c)
	}
}

func TestOfferFirstWins(t *testing.T) {
	p := NewProvider(logger.Discard())
	first := domain.Coordinates{Latitude: 39.92, Longitude: 32.85}
	second := domain.Coordinates{Latitude: 38.42, Longitude: 27.14}

	if !p.Offer(first) {
		t.Fatal("first offer must be stored")
	}
	if p.Offer(second) {
		t.Fatal("second offer must be ignored")
	}

	got, _ := p.Coordinates()
	if got != first {
		t.Fatalf("Coordinates() = %v, want %v", got, first)
	}
}

func TestFailSettlesWithoutCoordinates(t *testing.T) {
	p := NewProvider(logger.Discard())
	p.Fail(errors.New("timeout"))
	waitSettled(t, p)

	if _, ok := p.Coordinates(); ok {
		t.Fatal("failure must not store coordinates")
	}
	// A later browser report is still accepted.
	if !p.Offer(domain.Coordinates{Latitude: 1, Longitude: 1}) {
		t.Fatal("offer after failure should be stored")
	}
}

func startWithEstimate(t *testing.T, coords domain.Coordinates) *Provider {
	t.Helper()
	p := NewProvider(logger.Discard())
	p.Start(context.Background(), SourceFunc(func(context.Context) (domain.Coordinates, error) {
		return coords, nil
	}))
	waitSettled(t, p)
	return p
}

func TestOfferReplacesEstimate(t *testing.T) {
	estimate := domain.Coordinates{Latitude: 41, Longitude: 29}
	reported := domain.Coordinates{Latitude: 40.99, Longitude: 29.03}
	p := startWithEstimate(t, estimate)

	if !p.Offer(reported) {
		t.Fatal("reported position must replace the estimate")
	}
	if got, _ := p.Coordinates(); got != reported {
		t.Fatalf("Coordinates() = %v, want %v", got, reported)
	}
	if p.Offer(estimate) {
		t.Fatal("a second report must be ignored")
	}
}

func TestDenialDiscardsEstimate(t *testing.T) {
	p := startWithEstimate(t, domain.Coordinates{Latitude: 41, Longitude: 29})

	p.Fail(ErrDenied)
	if c, ok := p.Coordinates(); ok {
		t.Fatalf("expected no coordinates after denial, got %v", c)
	}
	if p.Offer(domain.Coordinates{Latitude: 1, Longitude: 1}) {
		t.Fatal("offer after denial must be ignored")
	}
}

func TestEstimateAfterDenialIsDropped(t *testing.T) {
	p := NewProvider(logger.Discard())
	p.Fail(ErrDenied)

	release := make(chan struct{})
	read := make(chan struct{})
	p.Start(context.Background(), SourceFunc(func(context.Context) (domain.Coordinates, error) {
		<-release
		defer close(read)
		return domain.Coordinates{Latitude: 41, Longitude: 29}, nil
	}))
	close(release)
	<-read

	// The store happens right after the source returns.
	time.Sleep(20 * time.Millisecond)
	if c, ok := p.Coordinates(); ok {
		t.Fatalf("estimate stored after denial: %v", c)
	}
}
