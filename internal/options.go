package internal

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/hub/pkg/health"
	"github.com/dmitrymomot/hub/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided and wraps every dispatch.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithController registers a controller under module/controller.
// The controller path may contain slashes ("cart/item").
// Panics if the registration is invalid or duplicated.
//
// Example:
//
//	hub.New(
//	    hub.WithController("shop", "cart", hub.NewController(newCart).
//	        Action("index", hub.Plain((*Cart).Index))),
//	)
func WithController(module, controller string, d Descriptor) Option {
	return func(a *App) {
		mustRegister(a.registry, module, controller, d)
	}
}

// WithModules restricts dispatch to the named modules.
// Without it, every module that has a registered controller is allowed.
func WithModules(names ...string) Option {
	return func(a *App) {
		a.registry.AllowModules(names...)
	}
}

// WithDefaults sets the route segments used when a path leaves them out.
// Empty values keep the current default.
//
// Example:
//
//	hub.WithDefaults("home", "index", "index")
func WithDefaults(module, controller, action string) Option {
	return func(a *App) {
		if module != "" {
			a.defaults.Module = module
		}
		if controller != "" {
			a.defaults.Controller = controller
		}
		if action != "" {
			a.defaults.Action = action
		}
	}
}

// WithErrorHandler sets a custom error handler for hook errors.
// Called when a hook or middleware returns a non-nil error.
//
// Example:
//
//	hub.WithErrorHandler(func(c hub.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
// It is also the next function handed to controllers.
//
// Example:
//
//	hub.WithNotFoundHandler(func(c hub.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithResultHandler sets the handler for values returned by a pipeline that
// finished without producing a response.
// Without it such values are dropped and the request is answered with 404.
//
// Example:
//
//	hub.WithResultHandler(func(c hub.Context, result any) error {
//	    return c.JSON(http.StatusOK, result)
//	})
func WithResultHandler(h ResultHandler) Option {
	return func(a *App) {
		a.resultHandler = h
	}
}

// WithActionArgs sets the function that builds the arguments passed to every hook.
func WithActionArgs(fn ArgsFunc) Option {
	return func(a *App) {
		a.argsFunc = fn
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks plus a built-in
// "controllers" check that fails while no controller is registered.
//
// Example:
//
//	hub.WithHealthChecks(
//	    hub.WithReadinessCheck("upstream", pingUpstream),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, route).
//
// Example:
//
//	hub.New(
//	    hub.WithLogger("shop", middlewares.RequestIDExtractor(), hub.RouteExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.Options{}, extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTracing sets the tracer provider for dispatch spans.
// Defaults to the global OpenTelemetry provider.
func WithTracing(tp trace.TracerProvider) Option {
	return func(a *App) {
		a.tracerProvider = tp
	}
}
