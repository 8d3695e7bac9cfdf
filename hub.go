package hub

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/hub/internal"
	"github.com/dmitrymomot/hub/pkg/coroutine"
	"github.com/dmitrymomot/hub/pkg/health"
	"github.com/dmitrymomot/hub/pkg/logger"
)

// Type aliases - public API
type (
	// App serves requests by dispatching them to controllers.
	App = internal.App

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Route is a resolved module/controller/action triple.
	Route = internal.Route

	// Controller describes a controller type: its constructor, actions and
	// lifecycle hooks.
	Controller[T any] = internal.Controller[T]

	// Method is a controller hook in one of three shapes: plain, async or coroutine.
	Method[T any] = internal.Method[T]

	// Descriptor is the type-erased view of a Controller used by the registry.
	Descriptor = internal.Descriptor

	// Registry maps module/controller keys to controllers.
	Registry = internal.Registry

	// Dispatcher runs the lifecycle of the action addressed by a request path.
	Dispatcher = internal.Dispatcher

	// DispatcherOption configures a Dispatcher.
	DispatcherOption = internal.DispatcherOption

	// NextFunc hands the request to the not-found handler.
	NextFunc = internal.NextFunc

	// HookKind identifies a lifecycle slot.
	HookKind = internal.HookKind

	// HandlerFunc is the signature for middleware targets.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from hooks.
	ErrorHandler = internal.ErrorHandler

	// ResultHandler handles a dispatch result when no hook produced a response.
	ResultHandler = internal.ResultHandler

	// ArgsFunc builds the arguments passed to every hook.
	ArgsFunc = internal.ArgsFunc

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError is an error carrying an HTTP status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Awaitable is a value a hook can return or a coroutine can yield.
	Awaitable = coroutine.Awaitable

	// Yield suspends a coroutine hook until an Awaitable resolves.
	Yield = coroutine.Yield
)

// Lifecycle slots, in pipeline order, followed by the fallback slot.
const (
	HookInitialize   = internal.HookInitialize
	HookBefore       = internal.HookBefore
	HookBeforeAction = internal.HookBeforeAction
	HookAction       = internal.HookAction
	HookAfterAction  = internal.HookAfterAction
	HookAfter        = internal.HookAfter
	HookEmpty        = internal.HookEmpty
)

// PrivatePrefix marks controller methods that can never be dispatched.
const PrivatePrefix = internal.PrivatePrefix

var (
	ErrInvalidController   = internal.ErrInvalidController
	ErrDuplicateController = internal.ErrDuplicateController
)

// New creates a new application with the given options.
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewController describes a controller type. newFn builds a fresh instance
// for every request; nil means new(T).
//
// Example:
//
//	cart := hub.NewController(func(c hub.Context, next hub.NextFunc) *Cart {
//	    return &Cart{ctx: c}
//	}).
//	    Before(hub.Plain((*Cart).loadSession)).
//	    Action("add", hub.Plain((*Cart).Add))
func NewController[T any](newFn func(c Context, next NextFunc) *T) *Controller[T] {
	return internal.NewController(newFn)
}

// Plain wraps a synchronous method.
func Plain[T any](fn func(ctrl *T, args ...any) (any, error)) Method[T] {
	return internal.Plain(fn)
}

// Async wraps a method that returns an Awaitable.
func Async[T any](fn func(ctrl *T, args ...any) Awaitable) Method[T] {
	return internal.Async(fn)
}

// Coroutine wraps a method that suspends on Awaitables through yield.
func Coroutine[T any](fn func(ctrl *T, yield Yield, args ...any) (any, error)) Method[T] {
	return internal.Coroutine(fn)
}

// NewRegistry creates an empty controller registry.
func NewRegistry() *Registry {
	return internal.NewRegistry()
}

// NewDispatcher creates a Dispatcher over registry for hosts that do not use App.
func NewDispatcher(registry *Registry, defaults Route, opts ...DispatcherOption) *Dispatcher {
	return internal.NewDispatcher(registry, defaults, opts...)
}

func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return internal.WithDispatchLogger(l)
}

func WithTracerProvider(tp trace.TracerProvider) DispatcherOption {
	return internal.WithTracerProvider(tp)
}

// NewContext creates a Context for hosts that drive a Dispatcher directly.
var NewContext = internal.NewContext

// Resolve splits a request path into a Route, filling missing segments from defaults.
func Resolve(path string, defaults Route) Route {
	return internal.Resolve(path, defaults)
}

// IsReserved reports whether action names a private or lifecycle method.
func IsReserved(action string) bool {
	return internal.IsReserved(action)
}

// IsEmpty reports whether a hook result counts as no value.
func IsEmpty(v any) bool {
	return internal.IsEmpty(v)
}

// BuildQuery appends params to a raw query string, keys sorted.
func BuildQuery(query string, params map[string]string) string {
	return internal.BuildQuery(query, params)
}

// Application options

func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

func WithController(module, controller string, d Descriptor) Option {
	return internal.WithController(module, controller, d)
}

func WithModules(names ...string) Option {
	return internal.WithModules(names...)
}

func WithDefaults(module, controller, action string) Option {
	return internal.WithDefaults(module, controller, action)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

func WithResultHandler(h ResultHandler) Option {
	return internal.WithResultHandler(h)
}

func WithActionArgs(fn ArgsFunc) Option {
	return internal.WithActionArgs(fn)
}

func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

func WithTracing(tp trace.TracerProvider) Option {
	return internal.WithTracing(tp)
}

// Health options

func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

func OperationName(name string) RunOption {
	return internal.OperationName(name)
}

func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Helpers

// ContextValue retrieves a typed value from the request context.
// Returns the zero value if the key is missing or holds another type.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// RouteFromContext returns the Route dispatched for the request ctx belongs to.
func RouteFromContext(ctx context.Context) (Route, bool) {
	return internal.RouteFromContext(ctx)
}

// RouteExtractor adds the dispatched route to log entries.
func RouteExtractor() ContextExtractor {
	return internal.RouteExtractor()
}

// Query returns the query parameter converted to T, or the zero value.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns the query parameter converted to T, or defaultValue.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// Arg returns args[i] as T.
func Arg[T any](args []any, i int) (T, bool) {
	return internal.Arg[T](args, i)
}

// NewHTTPError creates an HTTPError. An empty message uses the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func WithDetail(detail string) HTTPErrorOption {
	return internal.WithDetail(detail)
}

func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// IsHTTPError reports whether err wraps an HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError returns the HTTPError wrapped by err, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}
