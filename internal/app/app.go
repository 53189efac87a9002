// Package app assembles the service: configuration, logging, metrics, the
// analytics service and the HTTP router, plus the run loop with graceful
// shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"dtlens/internal/config"
	apierrors "dtlens/internal/errors"
	"dtlens/internal/infrastructure"
	custommiddleware "dtlens/internal/middleware"
	"dtlens/internal/services"
	handlers "dtlens/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application is the assembled service container.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics
	Service *services.AnalyticsService
	Router  *chi.Mux
	Server  *http.Server
}

// NewApplication loads configuration and wires every component. The initial
// dataset load is attempted but not required: the server starts without a
// snapshot and answers 503 on analytics routes until one is loaded.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	metrics := infrastructure.NewMetrics()
	service := services.NewAnalyticsService(logger, metrics)

	if _, err := service.LoadFromFile(context.Background(), cfg.Dataset.Path); err != nil {
		logger.Warn("initial dataset load failed, starting without a snapshot",
			slog.String("path", cfg.Dataset.Path),
			slog.String("error", err.Error()))
	}

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Service: service,
	}
	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.RequestLogger(a.Logger))
	r.Use(custommiddleware.Instrument(a.Metrics))
	r.Use(chimiddleware.Recoverer)
	if a.Config.Limits.Enabled {
		r.Use(custommiddleware.RateLimit(a.Config.Limits.RPS, a.Config.Limits.Burst))
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(a.Config.Server.ReadTimeout))

		healthHandler := handlers.NewHealthHandler(a.Service, Version)
		r.Mount("/health", healthHandler.Routes())

		analyticsHandler := handlers.NewAnalyticsHandler(a.Service, a.Logger, errorHandler)
		r.Mount("/analytics", analyticsHandler.Routes())

		companyHandler := handlers.NewCompanyHandler(a.Service, a.Logger, errorHandler)
		r.Mount("/companies", companyHandler.Routes())

		datasetHandler := handlers.NewDatasetHandler(a.Service, a.Logger, errorHandler,
			a.Config.Dataset.Path, a.Config.Dataset.MaxUploadBytes)
		r.Mount("/dataset", datasetHandler.Routes())
	})

	// Prometheus endpoint stays outside the rate-limited API group so
	// scrapes never contend with clients.
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

// createServer creates the HTTP server with configured timeouts.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run serves until the context is cancelled or SIGINT/SIGTERM arrives, then
// drains connections within the configured shutdown timeout.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Logger.Info("application stopped")
	return err
}
