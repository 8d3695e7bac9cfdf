// Package logger builds slog loggers with context extraction and optional
// Sentry reporting.
//
// Extractors are called on every log call, so request-scoped values such as
// the request ID or the dispatched route are picked up from the context that
// is passed to the *Context logging methods:
//
//	routeExtractor := func(ctx context.Context) (slog.Attr, bool) {
//		if r, ok := hub.RouteFromContext(ctx); ok {
//			return slog.String("route", r.String()), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(logger.Options{Format: logger.FormatText}, routeExtractor)
//	log.InfoContext(ctx, "dispatched")
//
// # Sentry
//
// NewWithSentry sends errors to Sentry as issues and warnings as logs in
// addition to the base handler:
//
//	log := logger.NewWithSentry(logger.Options{}, logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	})
//
// An empty DSN, or a failed Sentry initialization, falls back to the base
// handler alone.
//
// LogHandlerDecorator can wrap any slog.Handler to add extraction, and
// NewNope returns a logger that discards everything.
package logger
