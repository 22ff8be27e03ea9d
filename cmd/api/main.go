package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"eczane_backend/internal/events"
	apphttp "eczane_backend/internal/http"
	"eczane_backend/internal/http/router"
	"eczane_backend/internal/notification"
	"eczane_backend/internal/pharmacy"
	"eczane_backend/internal/pharmacy/executor"
	"eczane_backend/platform/config"
	"eczane_backend/platform/logger"
	"eczane_backend/platform/validator"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	geminiClient, err := executor.NewGeminiClient(ctx, cfg, nil)
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		panic("failed to initialize gemini client: " + err.Error())
	}
	log.Info("gemini client initialized", "model", cfg.GetGeminiModel())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(log)
	notificationModule.RegisterHandlers(eventBus)

	searchExecutor := executor.New(geminiClient.Models, cfg.GetGeminiModel(), val, log)

	pharmacyModule, err := pharmacy.NewModule(cfg, searchExecutor, eventBus, notificationModule.SSE(), val, log)
	if err != nil {
		log.Error("failed to initialize pharmacy module", "error", err)
		panic("failed to initialize pharmacy module: " + err.Error())
	}
	if cfg.IsIPGeolocationEnabled() {
		log.Info("ip geolocation enabled", "url", cfg.GetIPGeolocationURL())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			pharmacyModule,
		},
	}

	engine := router.New(app)

	// Request contexts derive from baseCtx so open event streams end when
	// shutdown starts.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return pharmacyModule.Sessions().Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		cancelRequests()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return drainSearches(shutdownCtx, pharmacyModule, eventBus)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// drainSearches lets in-flight searches and their event handlers finish,
// bounded by ctx.
func drainSearches(ctx context.Context, m *pharmacy.Module, bus events.Drainer) error {
	done := make(chan struct{})
	go func() {
		m.Sessions().Drain()
		bus.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
