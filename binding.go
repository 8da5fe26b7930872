package hookstate

import (
	"fmt"

	"github.com/davidroman0O/hookstate/slot"
)

// Binding is the per-invocation handle for one component instance. It
// pairs the instance's path with a running request counter, so that the
// Nth UseState call of an invocation always addresses the Nth slot.
//
// The hosting framework constructs a fresh binding per invocation (or
// calls Reset on a reused one) and must guarantee that the component
// issues its UseState calls in the same order, with the same types, on
// every invocation. A binding is not safe for concurrent use; the
// setters it produces are.
type Binding struct {
	registry *Registry
	path     Path
	counter  int
}

// Bind creates a binding positioned at path. The path is copied once;
// the copy is shared, immutably, by the binding and all of its setters.
func (r *Registry) Bind(path Path) *Binding {
	return &Binding{
		registry: r,
		path:     path.Clone(),
	}
}

// Path returns a copy of the binding's path.
func (b *Binding) Path() Path {
	return b.path.Clone()
}

// Reset rewinds the request counter so the binding can serve the next
// invocation of the same component instance.
func (b *Binding) Reset() {
	b.counter = 0
}

// UseState is the state request. The first invocation of a component
// initializes the slot with initial and fixes its type; every later
// invocation ignores initial and returns the retained value. The
// returned setter overwrites the slot independently of the binding's
// lifetime.
//
// The counter advances even when the request fails, so one bad request
// does not shift the indices of the requests after it.
func UseState[T any](b *Binding, initial T) (T, Setter[T], error) {
	index := b.counter
	b.counter++

	setter := Setter[T]{
		registry: b.registry,
		path:     b.path,
		index:    index,
	}

	store, err := b.registry.Resolve(b.path)
	if err != nil {
		b.registry.notifyStateRequest(b.path, index, err)
		var zero T
		return zero, setter, err
	}

	value, err := slot.GetOrInit(store, index, initial)
	b.registry.notifyStateRequest(b.path, index, err)
	if err != nil {
		var zero T
		return zero, setter, fmt.Errorf("state request at %s: %w", b.path, err)
	}

	return value, setter, nil
}

// Setter is a capability that overwrites one slot. It is a plain value
// capturing (registry, path, index); it can be copied, stored, and
// invoked any number of times from any goroutine, long after the binding
// that produced it has been discarded.
type Setter[T any] struct {
	registry *Registry
	path     Path
	index    int
}

// Set overwrites the captured slot with value. The path is resolved
// anew on every call, so a setter never holds a reference into the
// tree. Writing to a slot whose subtree was pruned fails with
// ErrUnknownSlot; writing a value of the wrong type fails with
// ErrTypeMismatch and leaves the slot unchanged.
func (s Setter[T]) Set(value T) error {
	store, err := s.registry.Resolve(s.path)
	if err != nil {
		s.registry.notifySet(s.path, s.index, err)
		return err
	}

	err = slot.Set(store, s.index, value)
	s.registry.notifySet(s.path, s.index, err)
	if err != nil {
		return fmt.Errorf("set at %s: %w", s.path, err)
	}

	return nil
}
