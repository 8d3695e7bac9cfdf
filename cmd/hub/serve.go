package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hub"
	"github.com/dmitrymomot/hub/middlewares"
	"github.com/dmitrymomot/hub/pkg/config"
	"github.com/dmitrymomot/hub/pkg/logger"
	"github.com/dmitrymomot/hub/pkg/telemetry"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server with the demo shop module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.address)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg)

	appOpts := []hub.Option{hub.WithCustomLogger(log)}
	runOpts := []hub.RunOption{
		hub.Logger(log),
		hub.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		hub.OperationName(cfg.App.Name),
	}
	if ctx != nil {
		runOpts = append(runOpts, hub.WithContext(ctx))
	}

	if cfg.Telemetry.Enabled {
		tp, shutdown, err := telemetry.InitTracer(cfg.App.Name, telemetry.WithLogger(log))
		if err != nil {
			return err
		}
		appOpts = append(appOpts, hub.WithTracing(tp))
		runOpts = append(runOpts, hub.ShutdownHook(shutdown))
	}

	app := newApp(cfg, appOpts...)
	return app.Run(cfg.Server.Address, runOpts...)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.NewWithSentry(
		logger.Options{
			Format: cfg.Log.Format,
			Level:  logger.ParseLevel(cfg.Log.Level),
		},
		logger.SentryConfig{
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			MinLevel:    slog.LevelError,
		},
		middlewares.RequestIDExtractor(),
		hub.RouteExtractor(),
	).With("component", cfg.App.Name)
}

// newApp wires the demo controllers with the configured dispatch settings.
func newApp(cfg *config.Config, opts ...hub.Option) *hub.App {
	d := cfg.Dispatch
	base := []hub.Option{
		hub.WithDefaults(d.DefaultModule, d.DefaultController, d.DefaultAction),
		hub.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Timeout(cfg.Server.RequestTimeout),
		),
		hub.WithHealthChecks(),
		hub.WithResultHandler(func(c hub.Context, result any) error {
			return c.JSON(http.StatusOK, result)
		}),
		hub.WithErrorHandler(errorHandler),
	}
	if len(d.Modules) > 0 {
		base = append(base, hub.WithModules(d.Modules...))
	}
	base = append(base, shopControllers(newStore())...)
	return hub.New(append(base, opts...)...)
}

func errorHandler(c hub.Context, err error) error {
	switch {
	case middlewares.IsTimeoutError(err):
		return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "request timed out"})
	case middlewares.IsPanicError(err):
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if he := hub.AsHTTPError(err); he != nil {
		body := map[string]string{"error": he.Message}
		if he.ErrorCode != "" {
			body["code"] = he.ErrorCode
		}
		return c.JSON(he.Code, body)
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
