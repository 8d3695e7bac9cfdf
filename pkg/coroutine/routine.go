package coroutine

import (
	"context"
)

// Yield suspends a routine on a until the driver has awaited it.
// It returns the resolved value, or the error the awaitable failed with.
// A nil awaitable resolves to nil immediately.
type Yield func(a Awaitable) (any, error)

// Routine is a generator-style function. It suspends on awaitables through
// yield and resolves with its own return values once it finishes.
type Routine func(yield Yield) (any, error)

// step is one message from a routine to its driver.
type step struct {
	await    Awaitable
	value    any
	err      error
	panicVal any
	final    bool
	panicked bool
}

// outcome is what the driver sends back to a suspended routine.
type outcome struct {
	value any
	err   error
}

// abortSignal unwinds a suspended routine when its driver stops early.
type abortSignal struct{}

// Drive returns an Awaitable that runs r to completion when first awaited.
// The driver awaits every yielded value before resuming the routine, so
// the routine never observes two of its awaitables in flight.
func Drive(r Routine) Awaitable {
	return newOnce(func(ctx context.Context) (any, error) {
		return drive(ctx, r)
	})
}

func drive(ctx context.Context, r Routine) (any, error) {
	steps := make(chan step)
	resume := make(chan outcome)
	abort := make(chan struct{})

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				if _, ok := rec.(abortSignal); ok {
					return
				}
				steps <- step{final: true, panicked: true, panicVal: rec}
			}
		}()

		yield := func(a Awaitable) (any, error) {
			if a == nil {
				return nil, nil
			}
			select {
			case steps <- step{await: a}:
			case <-abort:
				panic(abortSignal{})
			}
			select {
			case o := <-resume:
				return o.value, o.err
			case <-abort:
				panic(abortSignal{})
			}
		}

		v, err := r(yield)
		steps <- step{final: true, value: v, err: err}
	}()

	for s := range steps {
		if s.final {
			if s.panicked {
				panic(s.panicVal)
			}
			return s.value, s.err
		}
		v, err := awaitStep(ctx, s.await, abort)
		resume <- outcome{value: v, err: err}
	}
	return nil, nil
}

// awaitStep awaits a yielded value. If awaiting panics, the suspended
// routine is released before the panic continues in the driver.
func awaitStep(ctx context.Context, a Awaitable, abort chan struct{}) (any, error) {
	defer func() {
		if rec := recover(); rec != nil {
			close(abort)
			panic(rec)
		}
	}()
	return a.Await(ctx)
}
