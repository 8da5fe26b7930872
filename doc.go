// Package hookstate provides a call-order-indexed, tree-addressed state
// store: the retention mechanism behind hooks-style state for component
// functions that are re-invoked on every render pass without keeping
// their own call frame alive between invocations.
//
// The component function stays stateless; persistent values live in a
// Registry, keyed by the component instance's position in a hierarchy
// (its Path) and by the ordinal position of each state request within
// the component body. On every invocation the hosting framework hands
// the component a Binding positioned at its path, and the component
// issues the same sequence of UseState calls in the same order:
//
//	b := registry.Bind(hookstate.Path{0, 2})
//	count, setCount, err := hookstate.UseState(b, 0)
//	...
//	go func() { _ = setCount.Set(count + 1) }()
//
// Core components include:
//   - Registry: a hierarchy of slot stores addressed by paths of child
//     indices, growing children on demand as instances appear
//   - Binding: the per-invocation handle exposing UseState
//   - Setter: a capability that overwrites one slot later, from any
//     goroutine, independent of the Binding that produced it
//   - slot.Store: the type-erased, append-only value store at each
//     hierarchy position
//
// Deviating from the established request order or from a slot's fixed
// type is an error, never silent corruption. The package is the state
// core only: tree diffing, re-render scheduling and component identity
// assignment belong to the hosting framework.
package hookstate
