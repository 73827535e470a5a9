// Package capability defines the shared contract that tools, resources
// and prompts each satisfy: something that can describe itself for the
// initialize handshake and expose a nested method-path → handler map for
// dispatch, grounded on the original's Capability/Tools/Resources/Prompts
// plugin split (application.py CONFIG_SPEC "capabilities", tools.py /
// resources.py / prompts.py).
package capability

import "golang.org/x/exp/slices"

// Handler answers one JSON-RPC method within a capability's rpc_exports
// tree. args is the decoded params object (nil for no params); ctx is
// whatever per-request context the caller chooses to pass through
// (*session.Session in this runtime) — typed as any here so this package
// stays free of a dependency on pkg/session.
type Handler func(ctx any, args map[string]any) (any, error)

// Capability is satisfied by pkg/tools.Registry, pkg/resources.Registry
// and pkg/prompts.Registry.
type Capability interface {
	// Name identifies the capability in the initialize handshake
	// ("tools", "resources", "prompts").
	Name() string

	// Infos returns the capability's advertised shape for the
	// initialize response, e.g. {"listChanged": false}.
	Infos() any

	// RPCExports returns the flat method-name → Handler map this
	// capability answers, e.g. {"list": ..., "call": ...} for tools,
	// mounted by the dispatcher under "tools/list", "tools/call".
	RPCExports() map[string]Handler
}

// Registry is the minimal in-memory building block shared by the three
// capability registries: a collection kept in registration order (a
// re-registered name keeps its first position) with a mutex-free
// snapshot accessor, since all three populate themselves once at startup
// and are read-mostly afterward.
type Registry[T any] struct {
	items map[string]T
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Put registers or replaces the item under name, preserving first-seen
// order for list responses.
func (r *Registry[T]) Put(name string, item T) {
	if _, exists := r.items[name]; !exists {
		r.order = append(r.order, name)
	}
	r.items[name] = item
}

// Get returns the item registered under name, if any.
func (r *Registry[T]) Get(name string) (T, bool) {
	v, ok := r.items[name]
	return v, ok
}

// Delete removes the item registered under name.
func (r *Registry[T]) Delete(name string) {
	if _, exists := r.items[name]; !exists {
		return
	}
	delete(r.items, name)
	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// List returns every item in registration order.
func (r *Registry[T]) List() []T {
	out := make([]T, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}
	return out
}

// Names returns every registered name in registration order.
func (r *Registry[T]) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
