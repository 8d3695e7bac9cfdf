// Package telemetry sets up OpenTelemetry tracing for hub servers.
package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ShutdownFunc flushes pending spans and stops the provider.
type ShutdownFunc func(context.Context) error

// Option configures InitTracer.
type Option func(*options)

type options struct {
	writer io.Writer
	logger *slog.Logger
	pretty bool
	global bool
}

// WithWriter sets where spans are exported. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithLogger sets the logger InitTracer reports to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPrettyPrint indents exported spans.
func WithPrettyPrint() Option {
	return func(o *options) { o.pretty = true }
}

// WithoutGlobal keeps the provider out of otel.SetTracerProvider.
func WithoutGlobal() Option {
	return func(o *options) { o.global = false }
}

// InitTracer creates a tracer provider exporting to stdout and, unless
// WithoutGlobal is given, installs it as the global provider.
func InitTracer(serviceName string, opts ...Option) (*sdktrace.TracerProvider, ShutdownFunc, error) {
	o := &options{
		writer: os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		global: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(o.writer)}
	if o.pretty {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("", semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	if o.global {
		otel.SetTracerProvider(tp)
	}

	o.logger.Info("tracing initialized", slog.String("service", serviceName))
	return tp, tp.Shutdown, nil
}
