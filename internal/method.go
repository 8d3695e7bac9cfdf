package internal

import (
	"github.com/dmitrymomot/hub/pkg/coroutine"
)

// methodKind tags which shape a Method holds.
type methodKind uint8

const (
	methodNone methodKind = iota
	methodPlain
	methodAsync
	methodCoroutine
)

func (k methodKind) String() string {
	switch k {
	case methodPlain:
		return "plain"
	case methodAsync:
		return "async"
	case methodCoroutine:
		return "coroutine"
	default:
		return "none"
	}
}

// Invoker calls a method bound to a controller instance.
// It returns an awaitable regardless of how the method was written.
type Invoker func(args ...any) coroutine.Awaitable

// Method is a controller method in one of three shapes: a plain function,
// an asynchronous function, or a coroutine. The zero value is an absent slot.
type Method[T any] struct {
	plain   func(ctrl *T, args ...any) (any, error)
	async   func(ctrl *T, args ...any) coroutine.Awaitable
	routine func(ctrl *T, yield coroutine.Yield, args ...any) (any, error)
	kind    methodKind
}

// Plain wraps a synchronous method. Its result is delivered as an already
// resolved awaitable.
//
// Example:
//
//	hub.Plain(func(c *Cart, args ...any) (any, error) {
//	    return c.items, nil
//	})
func Plain[T any](fn func(ctrl *T, args ...any) (any, error)) Method[T] {
	if fn == nil {
		return Method[T]{}
	}
	return Method[T]{kind: methodPlain, plain: fn}
}

// Async wraps a method that already returns an awaitable.
//
// Example:
//
//	hub.Async(func(c *Cart, args ...any) coroutine.Awaitable {
//	    return coroutine.Go(func() (any, error) { return c.repo.Load(c.ctx) })
//	})
func Async[T any](fn func(ctrl *T, args ...any) coroutine.Awaitable) Method[T] {
	if fn == nil {
		return Method[T]{}
	}
	return Method[T]{kind: methodAsync, async: fn}
}

// Coroutine wraps a generator-style method. Every value passed to yield is
// awaited before the method resumes.
//
// Example:
//
//	hub.Coroutine(func(c *Cart, yield coroutine.Yield, args ...any) (any, error) {
//	    items, err := yield(c.loadItems())
//	    if err != nil {
//	        return nil, err
//	    }
//	    return len(items.([]Item)), nil
//	})
func Coroutine[T any](fn func(ctrl *T, yield coroutine.Yield, args ...any) (any, error)) Method[T] {
	if fn == nil {
		return Method[T]{}
	}
	return Method[T]{kind: methodCoroutine, routine: fn}
}

// IsZero reports whether the slot is empty.
func (m Method[T]) IsZero() bool {
	return m.kind == methodNone
}

// Bind returns an Invoker with ctrl as the receiver.
// Binding an empty method returns nil.
func (m Method[T]) Bind(ctrl *T) Invoker {
	switch m.kind {
	case methodPlain:
		return func(args ...any) coroutine.Awaitable {
			return coroutine.Complete(m.plain(ctrl, args...))
		}
	case methodAsync:
		return func(args ...any) coroutine.Awaitable {
			a := m.async(ctrl, args...)
			if a == nil {
				return coroutine.Resolved(nil)
			}
			return a
		}
	case methodCoroutine:
		return func(args ...any) coroutine.Awaitable {
			return coroutine.Drive(func(yield coroutine.Yield) (any, error) {
				return m.routine(ctrl, yield, args...)
			})
		}
	default:
		return nil
	}
}
