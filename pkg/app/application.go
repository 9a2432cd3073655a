package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hitcounter/internal/events/handler"
	"hitcounter/pkg/client"
	"hitcounter/pkg/config"
	"hitcounter/pkg/contracts"
	apperrors "hitcounter/pkg/errors"
	httputil "hitcounter/pkg/http"
	"hitcounter/pkg/middleware"
)

const (
	HealthPath  = "/health"
	ReadyPath   = "/ready"
	MetricsPath = "/metrics"
)

type Application struct {
	cfg            *config.Config
	clients        *client.Client
	server         *http.Server
	rateLimiter    *middleware.ClientRateLimiter
	healthHandler  http.Handler
	appHTTPHandler http.Handler
}

func NewApplication(cfg *config.Config, clients *client.Client) *Application {
	return &Application{
		cfg:     cfg,
		clients: clients,
	}
}

func (a *Application) SetApp(appHandler contracts.Handler, routes ...string) {
	a.setHealthHandler()
	a.setAppHandler(appHandler, routes)
	a.setAppServer()
}

// Handler returns the root handler the server runs.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	healthHandler := handler.NewHealthHandler(a.clients.Mongo, a.cfg.Log)
	healthHandler.RegisterRoutes(healthRouter)
	healthRouter.Handler(http.MethodGet, MetricsPath, promhttp.Handler())

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(appHandler contracts.Handler, routes []string) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)
	appRouter.NotFound = http.HandlerFunc(a.notFound)

	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.DefaultClientKeyExtractor,
		a.cfg.Log,
	)

	// Recovery → Logging → Metrics → CORS → RateLimit → BodyLimit → Timeout → Router
	var appHTTPHandler http.Handler = appRouter
	appHTTPHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHTTPHandler)
	appHTTPHandler = middleware.BodyLimit(int64(a.cfg.MaxRequestSize))(appHTTPHandler)
	if a.rateLimiter.Enabled() {
		appHTTPHandler = middleware.RateLimit(a.rateLimiter)(appHTTPHandler)
		a.cfg.Log.Info("Per-client rate limiting enabled",
			"requests", a.cfg.RateLimitRequests,
			"window", a.cfg.RateLimitWindow,
		)
	}
	appHTTPHandler = middleware.CORS(middleware.DefaultCORSConfig(a.cfg.CORSAllowedOrigins))(appHTTPHandler)
	appHTTPHandler = middleware.Metrics(routes...)(appHTTPHandler)
	appHTTPHandler = middleware.RequestLogging(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(a.cfg.Log)(appHTTPHandler)
	a.appHTTPHandler = appHTTPHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle(HealthPath, a.healthHandler)
	mux.Handle(ReadyPath, a.healthHandler)
	mux.Handle(MetricsPath, a.healthHandler)
	mux.Handle("/", a.appHTTPHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.clients.DisconnectWithin(a.cfg.ShutdownTimeout, a.cfg.Log)
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}
	a.cfg.Log.Info("Server stopped")

	a.cfg.Log.Info("Stopping background workers...")
	a.rateLimiter.Stop()
	a.cfg.Log.Info("Background workers stopped")

	a.clients.GracefulShutdown(ctx, a.cfg.Log)
	a.cfg.Log.Info("Shutdown complete")
}

func (a *Application) notFound(w http.ResponseWriter, r *http.Request) {
	if err := httputil.WriteError(w, apperrors.NotFound("Route")); err != nil {
		a.cfg.Log.Error("failed to write error response", "handler", "NotFound", "operation", "WriteError", "error", err)
	}
}
