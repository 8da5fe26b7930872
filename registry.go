package hookstate

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"

	"github.com/davidroman0O/hookstate/slot"
)

// node is one position in the hierarchy: its own slot store plus its
// positionally addressed children.
type node struct {
	store    *slot.Store
	children []*node
}

func newNode() *node {
	return &node{store: slot.NewStore()}
}

// Registry is a hierarchy of slot stores addressed by paths of child
// indices. One registry typically serves one application or runtime
// instance; Default returns a process-wide one for frameworks that want
// the convenience, New builds independent registries for everything
// else, isolated testing included.
//
// A single mutex guards the tree shape (traversal and child creation);
// slot content is guarded per node, so operations on disjoint subtrees
// contend only for the brief shape-lock window.
type Registry struct {
	id        string
	logger    Logger
	autoGrow  bool
	observers []Observer

	mu   deadlock.Mutex
	root *node
}

// New creates a registry with the given options. Auto-grow is enabled
// unless WithAutoGrow(false) is passed.
func New(opts ...Option) *Registry {
	r := &Registry{
		id:       uuid.NewString(),
		logger:   NewDefaultLogger(),
		autoGrow: true,
		root:     newNode(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger.Debug("registry %s created (autoGrow=%v)", r.id, r.autoGrow)
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, lazily initialized on first
// access and never torn down.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// ID returns the registry's unique instance identifier.
func (r *Registry) ID() string {
	return r.id
}

// Resolve returns the slot store at path, creating missing children on
// demand when auto-grow is enabled. The empty path resolves to the
// root's own store. With auto-grow disabled an unregistered path fails
// with ErrUnknownPath; a negative index always does.
func (r *Registry) Resolve(path Path) (*slot.Store, error) {
	r.mu.Lock()
	n, grown, err := r.walk(path, r.autoGrow)
	r.mu.Unlock()

	if err != nil {
		return nil, err
	}

	r.notifyGrown(grown)
	return n.store, nil
}

// walk descends from the root along path. When grow is true, missing
// children (intermediates included) are appended as empty nodes and
// their paths returned for notification. Must be called with r.mu held.
func (r *Registry) walk(path Path, grow bool) (*node, []Path, error) {
	var grown []Path

	n := r.root
	for depth, index := range path {
		if index < 0 {
			return nil, grown, fmt.Errorf("%w: negative index %d at depth %d in %s", ErrUnknownPath, index, depth, path)
		}

		for index >= len(n.children) {
			if !grow {
				return nil, grown, fmt.Errorf("%w: %s has no child %d at depth %d", ErrUnknownPath, path, index, depth)
			}

			childPath := path[:depth].Child(len(n.children))
			n.children = append(n.children, newNode())
			grown = append(grown, childPath)
		}

		n = n.children[index]
	}

	return n, grown, nil
}

// RegisterChild appends a new child node under parent and returns its
// path. Frameworks that disable auto-grow call this when a new component
// instance is created; the parent itself is still subject to the
// registry's growth policy.
func (r *Registry) RegisterChild(parent Path) (Path, error) {
	r.mu.Lock()
	n, grown, err := r.walk(parent, r.autoGrow)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	childPath := parent.Child(len(n.children))
	n.children = append(n.children, newNode())
	r.mu.Unlock()

	r.notifyGrown(grown)
	r.notifyGrown([]Path{childPath})
	r.logger.Debug("registry %s registered child %s", r.id, childPath)

	return childPath, nil
}

// Prune drops all state held by the node at path and its descendants.
// The node itself stays in place with a fresh, empty store so that
// sibling paths remain stable; the path may be reused by a new component
// instance afterwards. Setters captured before the prune fail with
// ErrUnknownSlot instead of writing into the new instance's state.
// Pruning the empty path clears the whole tree.
func (r *Registry) Prune(path Path) error {
	r.mu.Lock()
	n, _, err := r.walk(path, false)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	n.store = slot.NewStore()
	n.children = nil
	r.mu.Unlock()

	for _, o := range r.observers {
		o.OnPrune(path)
	}
	r.logger.Debug("registry %s pruned subtree %s", r.id, path)

	return nil
}

// Stats walks the tree and reports its current shape.
func (r *Registry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats RegistryStats
	countNodes(r.root, &stats)
	return stats
}

func countNodes(n *node, stats *RegistryStats) {
	stats.Nodes++
	stats.Slots += n.store.Len()
	for _, child := range n.children {
		countNodes(child, stats)
	}
}

func (r *Registry) notifyGrown(grown []Path) {
	for _, p := range grown {
		for _, o := range r.observers {
			o.OnGrow(p)
		}
		r.logger.Debug("registry %s grew node %s", r.id, p)
	}
}

func (r *Registry) notifyStateRequest(path Path, index int, err error) {
	if err != nil {
		r.logger.Warn("registry %s state request %d at %s failed: %v", r.id, index, path, err)
	}
	for _, o := range r.observers {
		o.OnStateRequest(path, index, err)
	}
}

func (r *Registry) notifySet(path Path, index int, err error) {
	if err != nil {
		r.logger.Warn("registry %s set of slot %d at %s failed: %v", r.id, index, path, err)
	}
	for _, o := range r.observers {
		o.OnSet(path, index, err)
	}
}
