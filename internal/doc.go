// Package internal provides the core types and implementation for hub.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/hub" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Mounts the dispatcher on a chi router, composes middleware once
//     per request, and runs the HTTP server with graceful shutdown
//   - Context: Request/response access plus the dispatch status. The status
//     starts at 404; moving it anywhere else marks the request as answered
//   - Route: The module/controller/action triple produced by Resolve
//   - Controller: Generic descriptor of a controller type T, its constructor,
//     and the Method[T] bound to each lifecycle slot
//   - Method: A plain, async, or coroutine method, normalized to Invoke
//   - Registry: Controllers keyed by "<module>/<controller>", plus the
//     optional module whitelist
//   - Dispatcher: Runs the lifecycle pipeline for one request
//
// # Dispatch
//
// The dispatcher resolves the path, checks the module whitelist, and looks
// up the controller. A fresh instance is built for every request. When the
// action is unknown or reserved, only the _empty hook runs. Otherwise the
// pipeline runs in order:
//
//	_initialize, _before, _before_<action>, <action>, _after_<action>, _after
//
// Before each hook the status is checked; once it is no longer 404 the
// pipeline stops and returns nil. The last non-empty hook result is
// returned when the pipeline completes. Hook errors are returned untouched.
//
// # Method Shapes
//
//	hub.Plain((*Cart).Index)      // func(*Cart, ...any) (any, error)
//	hub.Async((*Cart).Add)        // func(*Cart, ...any) hub.Awaitable
//	hub.Coroutine((*Cart).Pay)    // func(*Cart, hub.Yield, ...any) (any, error)
//
// All three are awaited the same way, so a controller author can switch
// between them without changing what the dispatcher observes.
//
// # Responses
//
// After dispatch the App writes the response: errors go to the ErrorHandler,
// a set status or body is flushed, a returned value goes to the
// ResultHandler, and anything else falls through to the NotFound handler.
package internal
