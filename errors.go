package hookstate

import (
	"errors"

	"github.com/davidroman0O/hookstate/slot"
)

// Slot-level failures are re-exported here so callers can match every
// error from UseState and Setter.Set without importing the slot package.
var (
	// ErrOrderViolation indicates a state request whose index skips ahead
	// of the next free slot, or a replay that requests slots in a
	// different order than the first invocation established.
	ErrOrderViolation = slot.ErrOrderViolation

	// ErrTypeMismatch indicates an access whose type differs from the
	// type a slot was created with.
	ErrTypeMismatch = slot.ErrTypeMismatch

	// ErrUnknownSlot indicates a write to a slot that was never
	// initialized, for example a setter applied after its subtree was
	// pruned.
	ErrUnknownSlot = slot.ErrUnknownSlot

	// ErrUnknownPath indicates a path that does not resolve to a node and
	// cannot be created: growth is disabled, an index is negative, or a
	// prune targeted a node that does not exist.
	ErrUnknownPath = errors.New("unknown hierarchy path")
)
