package main

import (
	"testing"

	"gioui.org/io/key"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/keycalc"
	"github.com/fjl/gio-calc/internal/memstore"
)

func check(t *testing.T, c *calculator, text string) {
	t.Helper()
	if c.text() != text {
		t.Fatalf("wrong text\n  got: %q\n want: %q", c.text(), text)
	}
}

func pressAll(c *calculator, seq string) {
	for i := 0; i < len(seq); i++ {
		c.press(seq[i])
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		mods key.Modifiers
		code byte
		ok   bool
	}{
		{"7", 0, '7', true},
		{".", 0, '.', true},
		{"+", key.ModShift, '+', true},
		{"(", key.ModShift, '(', true},
		{"-", 0, engine.OpSubtract, true},
		{"-", key.ModAlt, keycalc.KeySign, true},
		{key.NameReturn, 0, engine.OpEvaluate, true},
		{key.NameEnter, 0, engine.OpEvaluate, true},
		{key.NameDeleteBackward, 0, keycalc.KeyBackspace, true},
		{key.NameEscape, 0, keycalc.KeyClear, true},
		{"M", 0, keycalc.KeyMemory, true},
		{"S", 0, engine.OpSquare, true},
		{"R", 0, engine.OpSquareRoot, true},
		{"X", 0, 0, false},
		{key.NameTab, 0, 0, false},
	}
	for _, test := range tests {
		code, ok := keyCode(test.name, test.mods)
		if code != test.code || ok != test.ok {
			t.Errorf("keyCode(%q, %v) = %q, %v; want %q, %v", test.name, test.mods, code, ok, test.code, test.ok)
		}
	}
}

// Every button code must be a key the calculator understands.
func TestKeypad(t *testing.T) {
	seen := make(map[byte]bool)
	for _, row := range keypad {
		for _, b := range row {
			if seen[b.code] {
				t.Errorf("duplicate button code %q", b.code)
			}
			seen[b.code] = true
			c := newCalculator(nil)
			pressAll(c, "(1+2")
			if err := c.Key(b.code); err != nil {
				t.Errorf("button %q (code %q) rejected: %v", b.text, b.code, err)
			}
		}
	}
}

func TestCalcText(t *testing.T) {
	c := newCalculator(nil)
	pressAll(c, "12+3")
	check(t, c, "3")
	if c.activeOp() != engine.OpNone {
		t.Fatal("active op while typing")
	}
	pressAll(c, "*")
	if c.activeOp() != engine.OpMultiply {
		t.Fatalf("wrong active op %q", c.activeOp())
	}
	pressAll(c, "2=")
	check(t, c, "18")

	pressAll(c, "M4")
	check(t, c, "M[_4]  (0)")
	pressAll(c, ".")

	pressAll(c, "/0=")
	check(t, c, engine.ErrDivideByZero.Label())
	pressAll(c, "A")
	check(t, c, "0")
}

func TestCalcPaste(t *testing.T) {
	c := newCalculator(nil)
	c.paste("134.2 / 2")
	pressAll(c, "=")
	check(t, c, "67.1")
}

func TestCalcStore(t *testing.T) {
	store := memstore.NewMemory()
	c := newCalculator(store)
	pressAll(c, "6M=3M7=")
	snap, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Memory != 6 || snap.Slots[7] != 3 {
		t.Fatalf("memory not saved: %+v", snap)
	}

	c = newCalculator(store)
	if c.Memory() != 6 || c.Slot(7) != 3 {
		t.Fatal("memory not restored")
	}
}
