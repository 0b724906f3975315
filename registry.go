package harness

import (
	"reflect"
	"sort"
	"sync"
)

// ElementRegistry indexes the currently-mounted, discoverable UI elements
// by identifier. It is populated by the host UI tree as elements mount and
// unmount, and read by the lookup protocol while tests execute.
//
// The registry is an explicitly owned instance rather than process-global
// state: construct one, hand it to the host tree's lifecycle hooks, and
// hand the same instance to the Runner. Multiple independent registries
// can coexist in one process.
//
// The registry only indexes live handles. It never extends an element's
// lifetime; the host tree owns registration lifetime and must call
// Unregister when an element unmounts.
type ElementRegistry struct {
	mu       sync.RWMutex
	elements map[string]any
	logger   Logger
}

// NewElementRegistry creates an empty element registry. A nil logger is
// replaced with a no-op logger.
func NewElementRegistry(logger Logger) *ElementRegistry {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ElementRegistry{
		elements: make(map[string]any),
		logger:   logger,
	}
}

// Register binds an identifier to a mounted element handle.
//
// Remounts are expected, so re-registering an identifier is not an error:
// the new handle wins. When the identifier is already bound to a different
// live handle a warning is logged, since that usually means two elements
// share an identifier. Safe to call from mount hooks on any goroutine.
func (r *ElementRegistry) Register(identifier string, handle any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.elements[identifier]; ok && !sameHandle(existing, handle) {
		r.logger.Warn("Overwriting registered element",
			"identifier", identifier, "error", ErrDuplicateIdentifier)
	}
	r.elements[identifier] = handle
}

// sameHandle reports whether two registered handles are the same value.
// Handles are opaque and may be uncomparable (funcs, maps, slices); those
// are never considered the same, so re-registering one logs the duplicate
// warning instead of panicking on ==.
func sameHandle(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// Unregister removes an identifier from the registry. It is a no-op if the
// identifier is absent, so unmount hooks may call it unconditionally.
func (r *ElementRegistry) Unregister(identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.elements, identifier)
}

// Lookup returns the handle bound to identifier, if any.
func (r *ElementRegistry) Lookup(identifier string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handle, ok := r.elements[identifier]
	return handle, ok
}

// Identifiers returns a sorted snapshot of all registered identifiers,
// useful for diagnostics when a lookup times out.
func (r *ElementRegistry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.elements))
	for id := range r.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of currently registered elements.
func (r *ElementRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.elements)
}

// ResolveAs looks up an element and asserts it to the requested type.
func ResolveAs[T any](r *ElementRegistry, identifier string) (T, bool) {
	var zero T
	handle, ok := r.Lookup(identifier)
	if !ok {
		return zero, false
	}
	typed, ok := handle.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
