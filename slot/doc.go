// Package slot provides the type-erased, append-only value store backing
// one position in a state hierarchy.
//
// A Store holds an ordered sequence of slots. Each slot is created by the
// first state request at its index and from then on is locked to the
// static type it was created with; every later read or write at that
// index must use the same type or the operation fails. Slots can only be
// appended at the current tail and are never deleted, which is what makes
// call-order indexing safe: the Nth state request of a component always
// lands on the Nth slot.
//
// Core guarantees:
//   - Type-safe access using generics, checked against the slot's fixed type
//   - Append-only growth; out-of-order requests fail instead of allocating
//   - Values are deep-copied in and out, so callers never hold references
//     into locked regions
//   - Thread-safe: a read-write lock serializes writers against readers
//
// Failed operations leave the store unchanged.
package slot
