// Package middlewares provides middleware for hub applications.
//
// Middleware wraps the whole dispatch of a request, so it runs once around
// the lifecycle hooks of the resolved controller.
//
// RequestID assigns an ID to each request, keeping an upstream one from the
// request headers when present. Pair it with RequestIDExtractor to have
// request_id on every log line:
//
//	app := hub.New(
//	    hub.WithLogger("shop", middlewares.RequestIDExtractor(), hub.RouteExtractor()),
//	    hub.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(5*time.Second),
//	    ),
//	)
//
// Recover turns panics from hooks, including hooks running as coroutines,
// into a *PanicError. Timeout puts a deadline on the request context; async
// and coroutine hooks stop being awaited once it passes and the request fails
// with a *TimeoutError. Both errors reach the app's error handler:
//
//	hub.WithErrorHandler(func(c hub.Context, err error) error {
//	    switch {
//	    case middlewares.IsPanicError(err):
//	        return c.String(http.StatusInternalServerError, "Internal Server Error")
//	    case middlewares.IsTimeoutError(err):
//	        return c.String(http.StatusGatewayTimeout, "Gateway Timeout")
//	    default:
//	        return c.String(http.StatusInternalServerError, err.Error())
//	    }
//	})
package middlewares
