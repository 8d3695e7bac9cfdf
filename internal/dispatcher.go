package internal

import (
	"context"
	"io"
	"log/slog"
	"math"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dmitrymomot/hub"

// Dispatch outcomes recorded on the dispatch span.
const (
	OutcomeCompleted          = "completed"
	OutcomeResponded          = "responded"
	OutcomeEmpty              = "empty"
	OutcomeModuleNotFound     = "module_not_found"
	OutcomeControllerNotFound = "controller_not_found"
	OutcomeActionNotFound     = "action_not_found"
	OutcomeFailed             = "failed"
)

// Dispatcher resolves a request path to a controller action and runs the
// action's lifecycle hooks.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	tracer   trace.Tracer
	defaults Route
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchLogger sets the logger for "not found" diagnostics.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTracerProvider sets the tracer provider for dispatch spans.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) DispatcherOption {
	return func(d *Dispatcher) {
		if tp != nil {
			d.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewDispatcher creates a Dispatcher over registry. defaults fill in the
// route segments missing from a path.
func NewDispatcher(registry *Registry, defaults Route, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		defaults: defaults,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Defaults returns the route defaults.
func (d *Dispatcher) Defaults() Route {
	return d.defaults
}

// Dispatch runs the action addressed by c.Path().
//
// Hooks run in order: _initialize, _before, _before_<action>, the action,
// _after_<action>, _after. Missing hooks are skipped. After the controller is
// constructed and after every hook, the pipeline stops and returns nil if
// c.Responded() is true. Otherwise the last non-empty value returned by a hook
// is the result.
//
// Unknown modules, controllers and actions are not errors: they are logged and
// Dispatch returns nil, nil. If the action is unknown or not public and the
// controller has an _empty hook, its result is returned instead.
// Errors returned by hooks are passed through unchanged.
func (d *Dispatcher) Dispatch(c Context, next NextFunc, args ...any) (any, error) {
	route := Resolve(c.Path(), d.defaults)
	c.SetRoute(route)

	ctx, span := d.tracer.Start(c.Context(), "hub.dispatch", trace.WithAttributes(
		attribute.String("hub.module", route.Module),
		attribute.String("hub.controller", route.Controller),
		attribute.String("hub.action", route.Action),
	))
	defer span.End()

	log := d.logger.With(
		slog.String("module", route.Module),
		slog.String("controller", route.Controller),
		slog.String("action", route.Action),
	)

	if !d.registry.IsValidModule(route.Module) {
		log.InfoContext(ctx, "module not found")
		setOutcome(span, OutcomeModuleNotFound)
		return nil, nil
	}

	ctrl, ok := d.registry.Lookup(route.Module, route.Controller)
	if !ok {
		log.InfoContext(ctx, "controller not found")
		setOutcome(span, OutcomeControllerNotFound)
		return nil, nil
	}

	if IsReserved(route.Action) || !ctrl.HasAction(route.Action) {
		return d.dispatchEmpty(ctx, span, log, c, next, ctrl, route, args)
	}

	inst := ctrl.Instantiate(c, next)
	if c.Responded() {
		setOutcome(span, OutcomeResponded)
		return nil, nil
	}

	var result any
	for _, kind := range pipeline {
		call := inst.Hook(kind, route.Action)
		if call == nil {
			continue
		}

		v, err := d.invoke(c, span, kind, route.Action, call, args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			setOutcome(span, OutcomeFailed)
			return nil, err
		}
		if !IsEmpty(v) {
			result = v
		}

		if c.Responded() {
			setOutcome(span, OutcomeResponded)
			return nil, nil
		}
	}

	setOutcome(span, OutcomeCompleted)
	return result, nil
}

// dispatchEmpty handles a request whose action cannot be dispatched.
func (d *Dispatcher) dispatchEmpty(
	ctx context.Context,
	span trace.Span,
	log *slog.Logger,
	c Context,
	next NextFunc,
	ctrl Descriptor,
	route Route,
	args []any,
) (any, error) {
	if !ctrl.HasHook(HookEmpty, route.Action) {
		log.InfoContext(ctx, "action not found")
		setOutcome(span, OutcomeActionNotFound)
		return nil, nil
	}

	inst := ctrl.Instantiate(c, next)
	if c.Responded() {
		setOutcome(span, OutcomeResponded)
		return nil, nil
	}

	v, err := d.invoke(c, span, HookEmpty, route.Action, inst.Hook(HookEmpty, route.Action), args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		setOutcome(span, OutcomeFailed)
		return nil, err
	}
	setOutcome(span, OutcomeEmpty)
	return v, nil
}

// invoke calls one hook and waits for it to resolve.
// The request context is read per hook so a deadline installed by an earlier
// hook through SetContext applies to the ones after it.
func (d *Dispatcher) invoke(c Context, parent trace.Span, kind HookKind, action string, call Invoker, args []any) (any, error) {
	ctx, span := d.tracer.Start(trace.ContextWithSpan(c.Context(), parent), "hub.hook", trace.WithAttributes(
		attribute.String("hub.hook", kind.MethodName(action)),
	))
	defer span.End()

	v, err := call(args...).Await(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

func setOutcome(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String("hub.outcome", outcome))
}

// IsEmpty reports whether a hook result counts as "no value": nil, a nil
// pointer/map/slice/func/chan/interface, false, "", numeric zero, or NaN.
// Empty but non-nil slices and maps are values.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
