package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"staybook/pkg/config"
	"staybook/pkg/middleware"
)

const maxRequestSize = 1 << 20

// RouteRegistrar is anything that mounts routes on the router.
type RouteRegistrar interface {
	RegisterRoutes(*httprouter.Router)
}

// ShutdownFunc releases a resource once the server has stopped.
type ShutdownFunc func(ctx context.Context)

type Application struct {
	cfg            *config.Config
	server         *http.Server
	rateLimiter    *middleware.IPRateLimiter
	healthHandler  http.Handler
	appHttpHandler http.Handler
	onShutdown     []ShutdownFunc
}

func NewApplication() *Application {
	return &Application{}
}

func (a *Application) SetApp(cfg *config.Config, appHandler, healthHandler RouteRegistrar) {
	a.cfg = cfg
	a.setHealthHandler(healthHandler)
	a.setAppHandler(appHandler)
	a.setAppServer()
}

// OnShutdown registers fn to run after the server stops, in registration
// order.
func (a *Application) OnShutdown(fn ShutdownFunc) {
	a.onShutdown = append(a.onShutdown, fn)
}

// Handler is the root handler the server serves.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler(healthHandler RouteRegistrar) {
	healthRouter := httprouter.New()
	healthHandler.RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(appHandler RouteRegistrar) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)

	a.rateLimiter = middleware.NewIPRateLimiter(a.cfg.RateLimitRequests, a.cfg.RateLimitWindow, a.cfg.Log)

	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHttpHandler)
	appHttpHandler = middleware.RateLimit(a.rateLimiter)(appHttpHandler)
	appHttpHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.MaxRequestSize(maxRequestSize)(appHttpHandler)
	appHttpHandler = a.corsHandler()(appHttpHandler)
	appHttpHandler = middleware.RequestLogging(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.Recovery(a.cfg.Log)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack",
		"rate_limit", a.cfg.RateLimitRequests,
		"cors_origins", a.cfg.CORSAllowedOrigins,
	)
}

// corsHandler answers preflight requests before they reach content type
// validation.
func (a *Application) corsHandler() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         600,
	})
	return c.Handler
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)

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
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	for _, fn := range a.onShutdown {
		fn(ctx)
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
