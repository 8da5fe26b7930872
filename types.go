package hookstate

import "strconv"

// Path is an ordered sequence of child indices identifying one component
// instance's position in the hierarchy, from the root down. The empty
// path addresses the root itself.
//
// A component instance must be given the same path for its whole
// lifetime, and two live instances must never share one. Paths held by
// bindings and setters are treated as immutable; one copy is shared by a
// binding and every setter it produces.
type Path []int

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Child returns the path of the child at index. The result shares no
// backing storage with p.
func (p Path) Child(index int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = index
	return out
}

// Equal reports whether two paths address the same position.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the path as "/0/2/1"; the root path renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b []byte
	for _, index := range p {
		b = append(b, '/')
		b = strconv.AppendInt(b, int64(index), 10)
	}
	return string(b)
}

// Observer receives notifications about registry operations. All hooks
// are invoked synchronously after the operation completes and outside
// the registry's locks; implementations must be safe for concurrent use.
type Observer interface {
	// OnStateRequest is called after each UseState, with the error the
	// request produced (nil on success).
	OnStateRequest(path Path, index int, err error)

	// OnSet is called after each setter application, with the error the
	// write produced (nil on success).
	OnSet(path Path, index int, err error)

	// OnGrow is called when a node is created, with the new node's path.
	OnGrow(path Path)

	// OnPrune is called when a subtree's state is dropped.
	OnPrune(path Path)
}

// ObserverFunc is a function adapter for Observer. Nil fields are
// treated as no-ops.
type ObserverFunc struct {
	OnStateRequestFunc func(path Path, index int, err error)
	OnSetFunc          func(path Path, index int, err error)
	OnGrowFunc         func(path Path)
	OnPruneFunc        func(path Path)
}

func (f ObserverFunc) OnStateRequest(path Path, index int, err error) {
	if f.OnStateRequestFunc != nil {
		f.OnStateRequestFunc(path, index, err)
	}
}

func (f ObserverFunc) OnSet(path Path, index int, err error) {
	if f.OnSetFunc != nil {
		f.OnSetFunc(path, index, err)
	}
}

func (f ObserverFunc) OnGrow(path Path) {
	if f.OnGrowFunc != nil {
		f.OnGrowFunc(path)
	}
}

func (f ObserverFunc) OnPrune(path Path) {
	if f.OnPruneFunc != nil {
		f.OnPruneFunc(path)
	}
}

// RegistryStats describes the current shape of a registry.
type RegistryStats struct {
	// Nodes is the number of hierarchy positions, including the root.
	Nodes int
	// Slots is the total number of initialized slots across all nodes.
	Slots int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry diagnostics.
func WithLogger(logger Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAutoGrow controls whether Resolve creates missing children on
// demand. Growth is enabled by default; with growth disabled the
// framework must call RegisterChild for every new component instance,
// and resolving an unregistered path fails with ErrUnknownPath.
func WithAutoGrow(enabled bool) Option {
	return func(r *Registry) {
		r.autoGrow = enabled
	}
}

// WithObserver attaches observers to the registry.
func WithObserver(observers ...Observer) Option {
	return func(r *Registry) {
		r.observers = append(r.observers, observers...)
	}
}
