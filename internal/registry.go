package internal

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Registry maps "<module>/<controller>" keys to controller descriptors and
// holds the module whitelist.
// It is filled while the App is being built and only read while serving,
// so it carries no locks.
type Registry struct {
	controllers map[string]Descriptor
	modules     map[string]struct{}
	explicit    bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]Descriptor),
		modules:     make(map[string]struct{}),
	}
}

// Register adds a controller under module/controller.
// Nested controller names use "/" ("cart/item").
func (r *Registry) Register(module, controller string, d Descriptor) error {
	if module == "" || controller == "" {
		return fmt.Errorf("%w: module and controller names are required", ErrInvalidController)
	}
	if strings.Contains(module, "/") {
		return fmt.Errorf("%w: module %q must not contain '/'", ErrInvalidController, module)
	}
	if d == nil {
		return fmt.Errorf("%w: %s/%s has no descriptor", ErrInvalidController, module, controller)
	}
	key := module + "/" + controller
	if _, ok := r.controllers[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateController, key)
	}
	r.controllers[key] = d
	if !r.explicit {
		r.modules[module] = struct{}{}
	}
	return nil
}

// AllowModules replaces the derived whitelist with an explicit one.
// Once called, only the listed modules are dispatched.
func (r *Registry) AllowModules(names ...string) {
	if !r.explicit {
		r.explicit = true
		r.modules = make(map[string]struct{}, len(names))
	}
	for _, name := range names {
		if name != "" {
			r.modules[name] = struct{}{}
		}
	}
}

// IsValidModule reports whether name is on the whitelist.
func (r *Registry) IsValidModule(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// Lookup returns the controller registered under module/controller.
func (r *Registry) Lookup(module, controller string) (Descriptor, bool) {
	d, ok := r.controllers[module+"/"+controller]
	return d, ok
}

// Modules returns the whitelisted module names, sorted.
func (r *Registry) Modules() []string {
	return slices.Sorted(maps.Keys(r.modules))
}

// Keys returns all registered "<module>/<controller>" keys, sorted.
func (r *Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r.controllers))
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	return len(r.controllers)
}
