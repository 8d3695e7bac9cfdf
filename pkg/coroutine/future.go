package coroutine

import (
	"context"
	"sync"
)

// Awaitable is a value that resolves at some point, possibly in the future.
type Awaitable interface {
	// Await blocks until the value is resolved or ctx is done.
	Await(ctx context.Context) (any, error)
}

// AwaitFunc adapts a plain function to the Awaitable interface.
type AwaitFunc func(ctx context.Context) (any, error)

// Await calls f(ctx).
func (f AwaitFunc) Await(ctx context.Context) (any, error) {
	return f(ctx)
}

// Future is the result of work running on its own goroutine.
// It is safe to await from multiple goroutines.
type Future struct {
	done     chan struct{}
	value    any
	err      error
	panicVal any
	panicked bool
}

// Go runs fn on a new goroutine and returns a Future for its outcome.
func Go(fn func() (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.panicked = true
				f.panicVal = r
			}
		}()
		f.value, f.err = fn()
	}()
	return f
}

// Resolved returns a completed Future holding v.
func Resolved(v any) *Future {
	f := &Future{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Failed returns a completed Future holding err.
func Failed(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Complete returns a completed Future holding both v and err.
func Complete(v any, err error) *Future {
	f := &Future{done: make(chan struct{}), value: v, err: err}
	close(f.done)
	return f
}

// Await waits for the Future to complete.
// If ctx is done first, ctx.Err() is returned and the work keeps running.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
	default:
		select {
		case <-f.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panicked {
		panic(f.panicVal)
	}
	return f.value, f.err
}

// Done returns a channel closed when the Future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// once memoizes the outcome of an awaitable that must only run once.
// The first Await starts the run with its ctx; every awaiter, including that
// first one, waits on done and may leave early through its own ctx.
type once struct {
	run      func(ctx context.Context) (any, error)
	start    sync.Once
	done     chan struct{}
	value    any
	err      error
	panicVal any
	panicked bool
}

func newOnce(run func(ctx context.Context) (any, error)) *once {
	return &once{run: run, done: make(chan struct{})}
}

func (o *once) Await(ctx context.Context) (any, error) {
	o.start.Do(func() {
		go func() {
			defer close(o.done)
			defer func() {
				if r := recover(); r != nil {
					o.panicked = true
					o.panicVal = r
				}
			}()
			o.value, o.err = o.run(ctx)
		}()
	})

	select {
	case <-o.done:
	default:
		select {
		case <-o.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if o.panicked {
		panic(o.panicVal)
	}
	return o.value, o.err
}
