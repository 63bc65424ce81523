package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"attendcli/internal/config"
	"attendcli/internal/exporter"
	"attendcli/internal/files"
	"attendcli/internal/infrastructure"
	"attendcli/internal/middleware"
	"attendcli/internal/services"
	transporthttp "attendcli/internal/transport/http"
	"attendcli/internal/websocket"
)

// Application bundles the HTTP server and its dependencies.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Service *services.AnalysisService
	Hub     *websocket.Hub
	Server  *http.Server
}

// NewApplication wires the full server: config, logger, analysis service,
// websocket hub, and the router.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := files.NewWorkspace(cfg.Paths).EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to prepare directories: %w", err)
	}

	hub := websocket.NewHub(logger)

	service, err := services.NewAnalysisService(logger, cfg.Analysis, exporter.NewWorkbookExporter(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Service: service,
		Hub:     hub,
	}

	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.router(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// router assembles the middleware chain and mounts the API.
func (a *Application) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.SecurityHeaders)

	if a.Config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	discovery := files.NewDiscovery(a.Config.Paths.DataDir, a.Logger)
	handler := transporthttp.NewAnalysisHandler(a.Service, a.Hub, discovery, a.Logger)
	r.Mount("/api", handler.Routes())

	r.Get("/ws", websocket.ServeWS(a.Hub, a.Config.WebSocket, a.Logger))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Run starts the server and blocks until an interrupt arrives or the server
// fails, then shuts down within the configured timeout.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Hub.Start()
	defer a.Hub.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
