package main

import (
	"errors"
	"log"

	"gioui.org/io/key"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/keycalc"
	"github.com/fjl/gio-calc/internal/memstore"
)

// buttonKind selects the button color.
type buttonKind int

const (
	kindDigit buttonKind = iota
	kindOp
	kindSpecial
	kindMemory
)

// buttonSpec describes one button of the keypad.
type buttonSpec struct {
	text string
	code byte
	kind buttonKind
}

// keypad is the button layout.
var keypad = [6][4]buttonSpec{
	{{"AC", keycalc.KeyClear, kindSpecial}, {"(", engine.OpOpenParen, kindSpecial}, {")", engine.OpCloseParen, kindSpecial}, {"÷", engine.OpDivide, kindOp}},
	{{"M", keycalc.KeyMemory, kindMemory}, {"x²", engine.OpSquare, kindOp}, {"√", engine.OpSquareRoot, kindOp}, {"×", engine.OpMultiply, kindOp}},
	{{"7", '7', kindDigit}, {"8", '8', kindDigit}, {"9", '9', kindDigit}, {"−", engine.OpSubtract, kindOp}},
	{{"4", '4', kindDigit}, {"5", '5', kindDigit}, {"6", '6', kindDigit}, {"+", engine.OpAdd, kindOp}},
	{{"1", '1', kindDigit}, {"2", '2', kindDigit}, {"3", '3', kindDigit}, {"%", engine.OpPercent, kindOp}},
	{{"0", '0', kindDigit}, {".", keycalc.KeyPoint, kindDigit}, {"±", keycalc.KeySign, kindSpecial}, {"=", engine.OpEvaluate, kindOp}},
}

// keyCode translates a key name to a calculator key code.
func keyCode(name string, mods key.Modifiers) (byte, bool) {
	switch name {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".", "+", "*", "/", "%", "(", ")", "=":
		return name[0], true
	case "-":
		if mods.Contain(key.ModAlt) {
			return keycalc.KeySign, true
		}
		return engine.OpSubtract, true
	case key.NameEnter, key.NameReturn:
		return engine.OpEvaluate, true
	case key.NameDeleteBackward, key.NameDeleteForward:
		return keycalc.KeyBackspace, true
	case key.NameEscape:
		return keycalc.KeyClear, true
	case "M":
		return keycalc.KeyMemory, true
	case "S":
		return engine.OpSquare, true
	case "R":
		return engine.OpSquareRoot, true
	}
	return 0, false
}

// calculator is the calculator state of the app. Memory is saved to the
// store whenever it changes.
type calculator struct {
	*keycalc.Calculator
	store memstore.Store
	saved memstore.Snapshot
}

func newCalculator(store memstore.Store, opts ...keycalc.Option) *calculator {
	c := &calculator{Calculator: keycalc.New(opts...), store: store}
	if store == nil {
		return c
	}
	snap, err := store.Load()
	if err != nil {
		log.Println("can't load memory:", err)
		return c
	}
	c.Restore(snap)
	c.saved = c.Snapshot()
	return c
}

// press handles a key code.
func (c *calculator) press(code byte) {
	err := c.Key(code)
	if err != nil && !errors.Is(err, keycalc.ErrRejected) {
		log.Printf("key %q: %v", code, err)
	}
	c.save()
}

// paste replaces the current input with text.
func (c *calculator) paste(text string) {
	if err := c.Parse(text); err != nil {
		log.Printf("paste %q: %v", text, err)
	}
	c.save()
}

func (c *calculator) save() {
	if c.store == nil {
		return
	}
	snap := c.Snapshot()
	if snap.Equal(c.saved) {
		return
	}
	if err := c.store.Save(snap); err != nil {
		log.Println("can't save memory:", err)
		return
	}
	c.saved = snap
}

// text returns the main display text.
func (c *calculator) text() string {
	switch {
	case c.Failed():
		return c.Err().Label()
	case c.State() == keycalc.EnteringMemory:
		return c.MemoryID()
	default:
		return c.Display()
	}
}

// activeOp returns the operator that is waiting for its right operand.
func (c *calculator) activeOp() byte {
	if c.State() != keycalc.ReadyForNumber {
		return engine.OpNone
	}
	return c.PeekOperator()
}
