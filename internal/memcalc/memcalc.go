// Package memcalc adds calculator memory to the evaluation engine: a scalar
// memory register, a fixed array of indexed memory slots and an unbounded
// memory stack.
//
// Memory survives ClearError. Only ClearAllMemory wipes it.
package memcalc

import (
	"math"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/memstore"
)

// DefaultSlots is the number of indexed memory slots used when none is given.
const DefaultSlots = 100

// OpClear is the memory operation that zeroes a register.
const OpClear byte = 'A'

// Calculator is an engine with memory.
type Calculator struct {
	*engine.Engine

	memory float64
	slots  []float64
	stack  []float64
}

// New creates a calculator with n indexed memory slots.
// If n is not positive, DefaultSlots is used.
func New(n int, opts ...engine.Option) *Calculator {
	if n <= 0 {
		n = DefaultSlots
	}
	return &Calculator{
		Engine: engine.New(opts...),
		slots:  make([]float64, n),
	}
}

// Memory returns the scalar memory.
func (c *Calculator) Memory() float64 { return c.memory }

// SetMemory sets the scalar memory.
func (c *Calculator) SetMemory(v float64) { c.memory = v }

// Slot returns memory slot i, or 0 if i is out of range.
func (c *Calculator) Slot(i int) float64 {
	if i < 0 || i >= len(c.slots) {
		return 0
	}
	return c.slots[i]
}

// SetSlot sets memory slot i. Out of range indexes are ignored.
func (c *Calculator) SetSlot(i int, v float64) {
	if i < 0 || i >= len(c.slots) {
		return
	}
	c.slots[i] = v
}

// SlotCount returns the number of indexed memory slots.
func (c *Calculator) SlotCount() int { return len(c.slots) }

// Slots returns a copy of the indexed memory.
func (c *Calculator) Slots() []float64 {
	return append([]float64(nil), c.slots...)
}

// UsedSlots returns the indexes of all non-zero slots in ascending order.
func (c *Calculator) UsedSlots() []int {
	var used []int
	for i, v := range c.slots {
		if v != 0 {
			used = append(used, i)
		}
	}
	return used
}

// PushMemory pushes v onto the memory stack.
func (c *Calculator) PushMemory(v float64) {
	c.stack = append(c.stack, v)
}

// PopMemory removes and returns the top of the memory stack, or 0 if it is
// empty.
func (c *Calculator) PopMemory() float64 {
	if len(c.stack) == 0 {
		return 0
	}
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return v
}

// PeekMemory returns the top of the memory stack, or 0 if it is empty.
func (c *Calculator) PeekMemory() float64 {
	if len(c.stack) == 0 {
		return 0
	}
	return c.stack[len(c.stack)-1]
}

// MemoryDepth returns the size of the memory stack.
func (c *Calculator) MemoryDepth() int { return len(c.stack) }

// StackValues returns a copy of the memory stack, bottom first.
func (c *Calculator) StackValues() []float64 {
	return append([]float64(nil), c.stack...)
}

// StackSum returns the sum of the memory stack.
func (c *Calculator) StackSum() float64 {
	var sum float64
	for _, v := range c.stack {
		sum += v
	}
	return sum
}

// StackAverage returns the mean of the memory stack, or 0 if it is empty.
func (c *Calculator) StackAverage() float64 {
	if len(c.stack) == 0 {
		return 0
	}
	return c.StackSum() / float64(len(c.stack))
}

// ClearMemoryStack empties the memory stack.
func (c *Calculator) ClearMemoryStack() {
	c.stack = c.stack[:0]
}

// ClearAllMemory zeroes the scalar memory and all slots and empties the
// memory stack.
func (c *Calculator) ClearAllMemory() {
	c.memory = 0
	for i := range c.slots {
		c.slots[i] = 0
	}
	c.ClearMemoryStack()
}

// MemoryOperation combines the scalar memory with the current value.
//
// Memory operations never set the sticky error. A failed operation leaves
// memory unchanged.
func (c *Calculator) MemoryOperation(code byte) error {
	v, err := combine(code, c.memory, c.Value())
	if err != nil {
		return err
	}
	c.memory = v
	return nil
}

// SlotOperation is MemoryOperation for memory slot i. An out of range index
// is ignored, like SetSlot.
func (c *Calculator) SlotOperation(code byte, i int) error {
	v, err := combine(code, c.Slot(i), c.Value())
	if err != nil {
		return err
	}
	c.SetSlot(i, v)
	return nil
}

// IsMemoryOperator reports whether code is a memory operation.
func IsMemoryOperator(code byte) bool {
	switch code {
	case engine.OpEvaluate, OpClear, engine.OpAdd, engine.OpSubtract,
		engine.OpMultiply, engine.OpDivide, engine.OpPercent:
		return true
	}
	return false
}

// combine computes the new register value for memory operation code.
func combine(code byte, m, v float64) (float64, error) {
	var r float64
	switch code {
	case engine.OpEvaluate:
		return v, nil
	case OpClear:
		return 0, nil
	case engine.OpAdd:
		r = m + v
	case engine.OpSubtract:
		r = m - v
	case engine.OpMultiply:
		r = m * v
	case engine.OpDivide:
		if v == 0 {
			return m, engine.ErrDivideByZero
		}
		r = m / v
	case engine.OpPercent:
		r = m / 100 * v
	default:
		return m, engine.ErrUnknownOperator
	}
	if math.IsInf(r, 0) && !math.IsInf(m, 0) && !math.IsInf(v, 0) {
		return m, engine.ErrOverflow
	}
	return r, nil
}

// Snapshot returns the memory state for persistence.
func (c *Calculator) Snapshot() memstore.Snapshot {
	return memstore.Snapshot{
		Memory: c.memory,
		Slots:  c.Slots(),
		Stack:  c.StackValues(),
	}
}

// Restore replaces memory with s. Slots beyond the calculator's slot count
// are dropped; missing slots are zero.
func (c *Calculator) Restore(s memstore.Snapshot) {
	c.memory = s.Memory
	for i := range c.slots {
		c.slots[i] = 0
	}
	copy(c.slots, s.Slots)
	c.stack = append(c.stack[:0], s.Stack...)
}
