package slot

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/sasha-s/go-deadlock"
)

var (
	// ErrOrderViolation indicates a state request whose index skips ahead
	// of the next free slot. It signals a call-order contract breach by
	// the component or its hosting framework.
	ErrOrderViolation = errors.New("state request out of order")

	// ErrTypeMismatch indicates an access whose type differs from the
	// type the slot was created with.
	ErrTypeMismatch = errors.New("slot type mismatch")

	// ErrUnknownSlot indicates a write to a slot index that was never
	// initialized.
	ErrUnknownSlot = errors.New("unknown slot index")
)

// entry is a single slot. The concrete type is captured when the slot is
// created and is fixed for the remaining life of the store.
type entry struct {
	typ      reflect.Type
	typeKind reflect.Kind
	value    interface{}
}

// Store is a threadsafe, type-aware, append-only sequence of slots for
// one position in a state hierarchy.
type Store struct {
	mu    deadlock.RWMutex
	slots []entry
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of initialized slots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Type returns the fixed type of the slot at index.
func (s *Store) Type(index int) (reflect.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.slots) {
		return nil, fmt.Errorf("%w: index %d, store holds %d slots", ErrUnknownSlot, index, len(s.slots))
	}
	return s.slots[index].typ, nil
}

// GetOrInit reads the slot at index, creating it from initial if index is
// the current append position.
//
// The first call at a given index fixes the slot's type to T. Later calls
// at the same index ignore initial and return a deep copy of the stored
// value, failing with ErrTypeMismatch if T differs from the fixed type.
// An index beyond the append position fails with ErrOrderViolation.
func GetOrInit[T any](s *Store, index int, initial T) (T, error) {
	var zero T

	want := reflect.TypeOf((*T)(nil)).Elem()

	s.mu.RLock()
	head := len(s.slots)
	s.mu.RUnlock()

	if index < 0 || index > head {
		return zero, fmt.Errorf("%w: index %d, next free slot is %d", ErrOrderViolation, index, head)
	}

	if index == head {
		// Copy before taking the lock so the critical section holds no
		// code that could fail.
		initialCopy := deepCopy(initial)

		s.mu.Lock()
		// Another initializer may have appended between the length read
		// and here; only append if index is still the tail.
		if index == len(s.slots) {
			s.slots = append(s.slots, entry{
				typ:      want,
				typeKind: want.Kind(),
				value:    initialCopy,
			})
		}
		s.mu.Unlock()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if index >= len(s.slots) {
		return zero, fmt.Errorf("%w: index %d, next free slot is %d", ErrOrderViolation, index, len(s.slots))
	}

	e := s.slots[index]
	if e.typ != want {
		return zero, fmt.Errorf("%w: slot %d holds %v, requested %v", ErrTypeMismatch, index, e.typ, want)
	}

	if e.value == nil {
		return zero, nil
	}

	out, ok := deepCopy(e.value).(T)
	if !ok {
		return zero, fmt.Errorf("%w: slot %d value of type %T cannot be returned as %v", ErrTypeMismatch, index, e.value, want)
	}
	return out, nil
}

// Set overwrites the slot at index in place. The slot must already exist
// and its fixed type must be exactly T; on any failure the store is left
// unchanged. The stored value is a deep copy, so the caller keeps no
// reference into the store.
func Set[T any](s *Store, index int, value T) error {
	want := reflect.TypeOf((*T)(nil)).Elem()
	valueCopy := deepCopy(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.slots) {
		return fmt.Errorf("%w: index %d, store holds %d slots", ErrUnknownSlot, index, len(s.slots))
	}

	e := &s.slots[index]
	if e.typ != want {
		return fmt.Errorf("%w: slot %d holds %v, cannot write %v", ErrTypeMismatch, index, e.typ, want)
	}

	e.value = valueCopy
	return nil
}

// Values returns a deep-copied snapshot of all slot values in slot order.
// Intended for debugging and introspection; the snapshot shares no
// references with the store.
func (s *Store) Values() []interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]interface{}, len(s.slots))
	for i, e := range s.slots {
		out[i] = deepCopy(e.value)
	}
	return out
}
