package memcalc

import (
	"testing"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/memstore"
)

func TestSlots(t *testing.T) {
	c := New(10)
	if c.SlotCount() != 10 {
		t.Fatalf("wrong slot count %d", c.SlotCount())
	}
	c.SetSlot(3, 7)
	c.SetSlot(10, 1) // out of range, ignored
	c.SetSlot(-1, 1)
	if v := c.Slot(3); v != 7 {
		t.Fatalf("slot 3 = %v, want 7", v)
	}
	if v := c.Slot(10); v != 0 {
		t.Fatalf("slot 10 = %v, want 0", v)
	}
	if used := c.UsedSlots(); len(used) != 1 || used[0] != 3 {
		t.Fatalf("wrong used slots %v", used)
	}
	if New(0).SlotCount() != DefaultSlots {
		t.Fatal("New(0) did not use default slot count")
	}
}

func TestMemoryOperation(t *testing.T) {
	tests := []struct {
		code    byte
		memory  float64
		value   float64
		want    float64
		wantErr error
	}{
		{'=', 3, 5, 5, nil},
		{'A', 3, 5, 0, nil},
		{'+', 3, 5, 8, nil},
		{'-', 3, 5, -2, nil},
		{'*', 3, 5, 15, nil},
		{'/', 3, 5, 0.6, nil},
		{'%', 50, 30, 15, nil},
		{'/', 3, 0, 3, engine.ErrDivideByZero},
		{'*', 1e308, 1e308, 1e308, engine.ErrOverflow},
		{'x', 3, 5, 3, engine.ErrUnknownOperator},
	}
	for _, test := range tests {
		c := New(10)
		c.SetMemory(test.memory)
		c.PushValue(test.value)
		err := c.MemoryOperation(test.code)
		if err != test.wantErr {
			t.Errorf("%c: got error %v, want %v", test.code, err, test.wantErr)
		}
		if c.Memory() != test.want {
			t.Errorf("%c: memory = %v, want %v", test.code, c.Memory(), test.want)
		}
		if c.Failed() {
			t.Errorf("%c: memory operation set the sticky error", test.code)
		}
	}
}

func TestSlotOperation(t *testing.T) {
	c := New(10)
	c.PushValue(4)
	if err := c.SlotOperation('=', 2); err != nil {
		t.Fatal(err)
	}
	if err := c.SlotOperation('*', 2); err != nil {
		t.Fatal(err)
	}
	if v := c.Slot(2); v != 16 {
		t.Fatalf("slot 2 = %v, want 16", v)
	}
	if err := c.SlotOperation('=', 50); err != nil {
		t.Fatalf("out of range slot operation failed: %v", err)
	}
	if len(c.UsedSlots()) != 1 {
		t.Fatalf("out of range write changed memory: %v", c.Slots())
	}
}

func TestMemoryStack(t *testing.T) {
	c := New(10)
	if c.PopMemory() != 0 || c.PeekMemory() != 0 {
		t.Fatal("empty memory stack should yield 0")
	}
	c.PushMemory(1)
	c.PushMemory(2)
	c.PushMemory(6)
	if c.MemoryDepth() != 3 {
		t.Fatalf("depth = %d", c.MemoryDepth())
	}
	if s := c.StackSum(); s != 9 {
		t.Fatalf("sum = %v", s)
	}
	if a := c.StackAverage(); a != 3 {
		t.Fatalf("average = %v", a)
	}
	if v := c.PopMemory(); v != 6 {
		t.Fatalf("pop = %v", v)
	}
	if v := c.PeekMemory(); v != 2 {
		t.Fatalf("peek = %v", v)
	}
}

func TestMemorySurvivesClearError(t *testing.T) {
	c := New(10)
	c.SetMemory(1)
	c.SetSlot(1, 2)
	c.PushMemory(3)
	c.SetError(engine.ErrDivideByZero)
	c.ClearError()
	if c.Memory() != 1 || c.Slot(1) != 2 || c.MemoryDepth() != 1 {
		t.Fatal("ClearError wiped memory")
	}
	c.ClearAllMemory()
	if c.Memory() != 0 || len(c.UsedSlots()) != 0 || c.MemoryDepth() != 0 {
		t.Fatal("ClearAllMemory left memory behind")
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := New(10)
	c.SetMemory(1.5)
	c.SetSlot(9, 9)
	c.PushMemory(4)
	snap := c.Snapshot()

	c2 := New(5)
	c2.SetSlot(0, 100)
	c2.Restore(snap)
	if c2.Memory() != 1.5 || c2.Slot(0) != 0 || c2.PeekMemory() != 4 {
		t.Fatalf("wrong restored state: %+v", c2.Snapshot())
	}
	// Slot 9 does not fit into five slots.
	if len(c2.UsedSlots()) != 0 {
		t.Fatalf("restore kept out of range slot: %v", c2.Slots())
	}

	c3 := New(10)
	c3.Restore(memstore.Snapshot{Slots: []float64{0, 2}})
	if c3.Slot(1) != 2 {
		t.Fatal("short snapshot not restored")
	}
}
