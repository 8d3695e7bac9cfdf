package internal

import "strings"

// Route addresses one action: the module namespace, the controller inside it,
// and the action method on the controller.
type Route struct {
	Module     string `json:"module"     yaml:"module"`
	Controller string `json:"controller" yaml:"controller"`
	Action     string `json:"action"     yaml:"action"`
}

// Key returns the registry key "<module>/<controller>".
func (r Route) Key() string {
	return r.Module + "/" + r.Controller
}

// String returns the canonical path "/<module>/<controller>/<action>".
func (r Route) String() string {
	return "/" + r.Module + "/" + r.Controller + "/" + r.Action
}

// Resolve maps a request path to a Route.
// Missing segments fall back to defaults. With more than three segments the
// first is the module, the last is the action, and everything in between is
// joined back with "/" to form a nested controller name.
//
//	Resolve("/", d)                   // d
//	Resolve("/shop", d)               // {shop, d.Controller, d.Action}
//	Resolve("/shop/cart", d)          // {shop, cart, d.Action}
//	Resolve("/shop/cart/add", d)      // {shop, cart, add}
//	Resolve("/shop/cart/sub/add", d)  // {shop, cart/sub, add}
func Resolve(path string, defaults Route) Route {
	var segments []string
	if path != "" && path != "/" {
		segments = strings.Split(strings.TrimPrefix(path, "/"), "/")
	}

	r := defaults
	switch n := len(segments); n {
	case 0:
	case 1:
		r.Module = segments[0]
	case 2:
		r.Module = segments[0]
		r.Controller = segments[1]
	case 3:
		r.Module = segments[0]
		r.Controller = segments[1]
		r.Action = segments[2]
	default:
		r.Module = segments[0]
		r.Controller = strings.Join(segments[1:n-1], "/")
		r.Action = segments[n-1]
	}
	return r
}
