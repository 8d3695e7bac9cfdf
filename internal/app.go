package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/hub/pkg/health"
	"github.com/dmitrymomot/hub/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Default route segments used when a path leaves them out.
const (
	DefaultModule     = "home"
	DefaultController = "index"
	DefaultAction     = "index"
)

// App serves requests by dispatching them to registered controllers.
// Every path is resolved to a module/controller/action route; there is no
// routing table. App is immutable after creation - all configuration is done
// via New().
type App struct {
	router          chi.Router
	registry        *Registry
	dispatcher      *Dispatcher
	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	resultHandler   ResultHandler
	argsFunc        ArgsFunc
	healthConfig    *healthConfig
	logger          *slog.Logger
	tracerProvider  trace.TracerProvider
	defaults        Route
	middlewares     []Middleware
}

// New creates a new application with the given options.
// It panics if a controller registration is invalid.
//
// Example:
//
//	app := hub.New(
//	    hub.WithDefaults("home", "index", "index"),
//	    hub.WithController("shop", "cart", cartController),
//	    hub.WithMiddleware(middlewares.Recover()),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:   chi.NewRouter(),
		registry: NewRegistry(),
		logger:   logger.NewNope(),
		defaults: Route{
			Module:     DefaultModule,
			Controller: DefaultController,
			Action:     DefaultAction,
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	a.dispatcher = NewDispatcher(a.registry, a.defaults,
		WithDispatchLogger(a.logger),
		WithTracerProvider(a.tracerProvider),
	)

	a.setupRoutes()
	return a
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// Registry returns the controller registry.
func (a *App) Registry() *Registry {
	return a.registry
}

// Dispatcher returns the dispatcher used for every request.
func (a *App) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", hub.Logger(log), hub.ShutdownTimeout(10*time.Second))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         otelhttp.NewHandler(a.router, cfg.operation),
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes registers health endpoints and the catch-all dispatch route.
func (a *App) setupRoutes() {
	if a.healthConfig != nil {
		checks := health.Checks{"controllers": a.controllersCheck}
		for name, fn := range a.healthConfig.checks {
			checks[name] = fn
		}
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(checks, health.WithLogger(a.logger)))
	}

	h := a.serveAction
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}
	a.router.Handle("/*", a.adaptHandler(h))
}

// serveAction dispatches the request and turns the outcome into a response.
func (a *App) serveAction(c Context) error {
	next := func() error { return a.notFound(c) }

	var args []any
	if a.argsFunc != nil {
		args = a.argsFunc(c)
	}

	result, err := a.dispatcher.Dispatch(c, next, args...)
	if err != nil {
		return err
	}

	switch {
	case c.Written():
		return nil
	case c.Responded(), c.Body() != nil:
		return flush(c)
	case !IsEmpty(result) && a.resultHandler != nil:
		// The pipeline finished without producing a response but returned
		// a value; the host decides what it means.
		return a.resultHandler(c, result)
	default:
		return a.notFound(c)
	}
}

func (a *App) notFound(c Context) error {
	if c.Written() {
		return nil
	}
	if a.notFoundHandler != nil {
		return a.notFoundHandler(c)
	}
	return c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// adaptHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) adaptHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError handles errors from hooks using the configured error handler.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogError("error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			c.LogError("error handler failed", slog.Any("error", herr))
		}
		return
	}

	if httpErr := AsHTTPError(err); httpErr != nil {
		http.Error(c.Response(), httpErr.Message, httpErr.Code)
		return
	}
	c.LogError("request failed", slog.Any("error", err))
	http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// controllersCheck is the built-in readiness check.
func (a *App) controllersCheck(context.Context) error {
	if a.registry.Len() == 0 {
		return errors.New("no controllers registered")
	}
	return nil
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if name != "" && fn != nil {
			c.checks[name] = fn
		}
	}
}

func mustRegister(r *Registry, module, controller string, d Descriptor) {
	if err := r.Register(module, controller, d); err != nil {
		panic(fmt.Sprintf("hub: %v", err))
	}
}
