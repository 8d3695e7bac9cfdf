package internal

// HandlerFunc is the signature for request handlers and middleware targets.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the App's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response. Global middleware runs around action dispatch.
//
// Example:
//
//	func Auth(next hub.HandlerFunc) hub.HandlerFunc {
//	    return func(c hub.Context) error {
//	        if !isAuthenticated(c) {
//	            return c.Redirect(302, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from hooks and middleware.
type ErrorHandler func(Context, error) error

// ResultHandler receives the value a dispatch produced when no hook set a
// response status. Without one, such results are dropped and the request is
// answered by the not-found handler.
type ResultHandler func(c Context, result any) error

// ArgsFunc returns the extra arguments forwarded to every hook of a request.
type ArgsFunc func(c Context) []any
