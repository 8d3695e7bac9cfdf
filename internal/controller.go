package internal

import (
	"slices"
	"strings"
)

// PrivatePrefix marks controller methods that can never be reached from a URL.
const PrivatePrefix = "_"

// HookKind identifies a lifecycle slot on a controller.
type HookKind uint8

// Lifecycle slots, in the order the dispatcher runs them.
// HookEmpty is the fallback used when the action does not exist.
const (
	HookInitialize HookKind = iota
	HookBefore
	HookBeforeAction
	HookAction
	HookAfterAction
	HookAfter
	HookEmpty
)

// pipeline is the order hooks run in for an existing action.
var pipeline = [...]HookKind{
	HookInitialize,
	HookBefore,
	HookBeforeAction,
	HookAction,
	HookAfterAction,
	HookAfter,
}

// MethodName returns the method name a slot is known by.
// Action-specific slots embed the action name.
func (k HookKind) MethodName(action string) string {
	switch k {
	case HookInitialize:
		return "_initialize"
	case HookBefore:
		return "_before"
	case HookBeforeAction:
		return "_before_" + action
	case HookAction:
		return action
	case HookAfterAction:
		return "_after_" + action
	case HookAfter:
		return "_after"
	case HookEmpty:
		return "_empty"
	default:
		return ""
	}
}

// IsReserved reports whether action may not be dispatched publicly: it is
// private or collides with a lifecycle hook name for that same action.
func IsReserved(action string) bool {
	if strings.HasPrefix(action, PrivatePrefix) {
		return true
	}
	return slices.Contains(reservedNames(action), action)
}

func reservedNames(action string) []string {
	return []string{
		"constructor",
		HookInitialize.MethodName(action),
		HookBefore.MethodName(action),
		HookBeforeAction.MethodName(action),
		HookAfterAction.MethodName(action),
		HookAfter.MethodName(action),
		HookEmpty.MethodName(action),
	}
}

// NextFunc hands the request to the next handler in the chain.
// Controllers receive it at construction time.
type NextFunc func() error

// Descriptor is a registered controller, independent of its instance type.
type Descriptor interface {
	// HasAction reports whether name is an action declared on the controller.
	HasAction(name string) bool

	// HasHook reports whether the slot is filled for action.
	HasHook(kind HookKind, action string) bool

	// Methods lists declared method names, hooks included, sorted.
	Methods() []string

	// Instantiate creates a fresh per-request instance.
	Instantiate(c Context, next NextFunc) Instance
}

// Instance is a controller constructed for a single request.
type Instance interface {
	// Hook returns the bound slot, or nil if the slot is empty.
	Hook(kind HookKind, action string) Invoker
}

// Controller describes a controller type T: how to construct it and which
// lifecycle slots and actions it declares. Slots are resolved when the
// controller is built, never by inspecting T at request time.
//
// Example:
//
//	type Cart struct {
//	    c    hub.Context
//	    repo *repository.Queries
//	}
//
//	ctrl := hub.NewController(func(c hub.Context, next hub.NextFunc) *Cart {
//	    return &Cart{c: c, repo: repo}
//	}).
//	    Before(hub.Plain((*Cart).requireSession)).
//	    Action("add", hub.Plain((*Cart).add)).
//	    Action("list", hub.Coroutine((*Cart).list))
type Controller[T any] struct {
	newFn        func(c Context, next NextFunc) *T
	actions      map[string]Method[T]
	beforeAction map[string]Method[T]
	afterAction  map[string]Method[T]
	initialize   Method[T]
	before       Method[T]
	after        Method[T]
	empty        Method[T]
}

// NewController creates a controller descriptor.
// A nil constructor allocates a zero T per request.
func NewController[T any](newFn func(c Context, next NextFunc) *T) *Controller[T] {
	if newFn == nil {
		newFn = func(Context, NextFunc) *T { return new(T) }
	}
	return &Controller[T]{
		newFn:        newFn,
		actions:      make(map[string]Method[T]),
		beforeAction: make(map[string]Method[T]),
		afterAction:  make(map[string]Method[T]),
	}
}

// Initialize sets the hook that runs first on every dispatched action.
func (c *Controller[T]) Initialize(m Method[T]) *Controller[T] {
	c.initialize = m
	return c
}

// Before sets the hook that runs before every action.
func (c *Controller[T]) Before(m Method[T]) *Controller[T] {
	c.before = m
	return c
}

// BeforeAction sets the hook that runs right before the named action.
func (c *Controller[T]) BeforeAction(action string, m Method[T]) *Controller[T] {
	setSlot(c.beforeAction, action, m)
	return c
}

// Action declares a public action.
// Names starting with "_" are accepted but can never be dispatched from a URL.
func (c *Controller[T]) Action(name string, m Method[T]) *Controller[T] {
	setSlot(c.actions, name, m)
	return c
}

// AfterAction sets the hook that runs right after the named action.
func (c *Controller[T]) AfterAction(action string, m Method[T]) *Controller[T] {
	setSlot(c.afterAction, action, m)
	return c
}

// After sets the hook that runs after every action.
func (c *Controller[T]) After(m Method[T]) *Controller[T] {
	c.after = m
	return c
}

// Empty sets the fallback invoked when the requested action does not exist.
func (c *Controller[T]) Empty(m Method[T]) *Controller[T] {
	c.empty = m
	return c
}

func setSlot[T any](slots map[string]Method[T], name string, m Method[T]) {
	if m.IsZero() {
		delete(slots, name)
		return
	}
	slots[name] = m
}

// HasAction implements Descriptor.
func (c *Controller[T]) HasAction(name string) bool {
	_, ok := c.actions[name]
	return ok
}

// HasHook implements Descriptor.
func (c *Controller[T]) HasHook(kind HookKind, action string) bool {
	return !c.slot(kind, action).IsZero()
}

// Methods implements Descriptor.
func (c *Controller[T]) Methods() []string {
	names := make([]string, 0, len(c.actions)+len(c.beforeAction)+len(c.afterAction)+4)
	for name := range c.actions {
		names = append(names, name)
	}
	for action := range c.beforeAction {
		names = append(names, HookBeforeAction.MethodName(action))
	}
	for action := range c.afterAction {
		names = append(names, HookAfterAction.MethodName(action))
	}
	for _, kind := range []HookKind{HookInitialize, HookBefore, HookAfter, HookEmpty} {
		if !c.slot(kind, "").IsZero() {
			names = append(names, kind.MethodName(""))
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Instantiate implements Descriptor.
func (c *Controller[T]) Instantiate(ctx Context, next NextFunc) Instance {
	return &instance[T]{def: c, ctrl: c.newFn(ctx, next)}
}

func (c *Controller[T]) slot(kind HookKind, action string) Method[T] {
	switch kind {
	case HookInitialize:
		return c.initialize
	case HookBefore:
		return c.before
	case HookBeforeAction:
		return c.beforeAction[action]
	case HookAction:
		return c.actions[action]
	case HookAfterAction:
		return c.afterAction[action]
	case HookAfter:
		return c.after
	case HookEmpty:
		return c.empty
	default:
		return Method[T]{}
	}
}

// instance binds a descriptor to one constructed controller value.
type instance[T any] struct {
	def  *Controller[T]
	ctrl *T
}

func (i *instance[T]) Hook(kind HookKind, action string) Invoker {
	return i.def.slot(kind, action).Bind(i.ctrl)
}
