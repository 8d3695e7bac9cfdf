// Package coroutine provides awaitable values and a driver for
// generator-style routines.
//
// Three shapes of work can be awaited uniformly:
//
//   - a value that is already known (Resolved, Failed),
//   - work running on its own goroutine (Go),
//   - a routine that suspends on other awaitables via a Yield function (Drive).
//
// # Routines
//
// A Routine is written as straight-line code. Every call to yield suspends the
// routine until the driver has awaited the yielded value, then resumes it with
// the resolved value or the error:
//
//	task := coroutine.Drive(func(yield coroutine.Yield) (any, error) {
//	    user, err := yield(coroutine.Go(func() (any, error) {
//	        return repo.GetUser(ctx, id)
//	    }))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return user.(*User).Name, nil
//	})
//
//	name, err := task.Await(ctx)
//
// The driver is lazy. Nothing runs until the first Await, and the outcome is
// memoized so later calls return the same value.
//
// # Panics
//
// A panic inside a Go function or a routine is re-raised in the goroutine that
// awaits it. Recover middleware placed around the caller sees it as if the
// work had run inline.
package coroutine
