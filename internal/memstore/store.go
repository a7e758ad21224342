// Package memstore persists calculator memory between sessions.
//
// Only memory is persisted: the scalar memory, the indexed memory slots and
// the memory stack. Operand and operator stacks belong to a session.
package memstore

import "errors"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("memstore: store is closed")

// Snapshot is the persisted memory state.
type Snapshot struct {
	Memory float64   `json:"memory"`
	Slots  []float64 `json:"slots"`
	Stack  []float64 `json:"stack"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Memory: s.Memory,
		Slots:  append([]float64(nil), s.Slots...),
		Stack:  append([]float64(nil), s.Stack...),
	}
}

// Equal reports whether s and o hold the same values.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Memory == o.Memory && equalFloats(s.Slots, o.Slots) && equalFloats(s.Stack, o.Stack)
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Store is the interface for memory persistence.
type Store interface {
	// Load returns the stored snapshot. An empty store yields the zero Snapshot.
	Load() (Snapshot, error)
	// Save replaces the stored snapshot.
	Save(s Snapshot) error
	// Close releases resources.
	Close() error
}
