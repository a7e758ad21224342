// Package textcalc evaluates calculator statements like "12.5 + 3 * (2 - 1) ="
// and formats results for display.
package textcalc

import (
	"log"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/memcalc"
)

// DefaultPrecision is the default number of decimals shown.
const DefaultPrecision = 8

// Calculator is a memory calculator driven by text.
type Calculator struct {
	*memcalc.Calculator

	precision int
}

type config struct {
	precision int
	slots     int
	log       *log.Logger
}

// Option configures a Calculator.
type Option func(*config)

// WithPrecision sets the number of decimals used by Format and Display.
func WithPrecision(n int) Option {
	return func(c *config) { c.precision = n }
}

// WithMemorySlots sets the number of indexed memory slots.
func WithMemorySlots(n int) Option {
	return func(c *config) { c.slots = n }
}

// WithLogger enables debug logging of engine activity.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.log = l }
}

// New creates a calculator showing 0.
func New(opts ...Option) *Calculator {
	cfg := config{precision: DefaultPrecision, slots: memcalc.DefaultSlots}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.precision < 0 {
		cfg.precision = DefaultPrecision
	}
	c := &Calculator{
		Calculator: memcalc.New(cfg.slots, engine.WithLogger(cfg.log)),
		precision:  cfg.precision,
	}
	c.EnterValue(0)
	return c
}

// Precision returns the number of decimals used for display.
func (c *Calculator) Precision() int { return c.precision }

// Parse enters statement into the calculator. It stops at the first
// failure.
func (c *Calculator) Parse(statement string) error {
	for i := 0; i < len(statement); {
		ch := statement[i]
		switch {
		case IsSpace(ch):
			i++
		case IsNumeric(ch):
			start := i
			for i < len(statement) && IsNumeric(statement[i]) {
				i++
			}
			v, err := ParseFloat(statement[start:i])
			if err != nil {
				if serr, ok := err.(*SyntaxError); ok {
					serr.Pos += start
				}
				return err
			}
			if err := c.EnterValue(v); err != nil {
				return err
			}
		case c.IsOperator(ch):
			if err := c.EnterOperator(ch); err != nil {
				return err
			}
			i++
		default:
			return &SyntaxError{Pos: i, Char: ch}
		}
	}
	return nil
}

// Eval parses statement and returns the formatted result.
func (c *Calculator) Eval(statement string) (string, error) {
	if err := c.Parse(statement); err != nil {
		return c.Display(), err
	}
	return c.Display(), nil
}

// EnterValue pushes v. When no operator is pending, the result of the
// previous expression is discarded first.
func (c *Calculator) EnterValue(v float64) error {
	if c.OperatorDepth() == 0 && !c.Failed() {
		c.ClearValues()
	}
	return c.PushValue(v)
}

// EnterOperator pushes an operator. An open paren with no operator pending
// starts a new expression. A close paren is resolved immediately.
func (c *Calculator) EnterOperator(code byte) error {
	if code == engine.OpOpenParen && c.OperatorDepth() == 0 && !c.Failed() {
		c.ClearValues()
	}
	if err := c.PushOperator(code); err != nil {
		return err
	}
	if code == engine.OpCloseParen {
		return c.EvaluateOne()
	}
	return nil
}

// Total evaluates everything pending.
func (c *Calculator) Total() error {
	return c.EvaluateAll()
}

// Format renders x using the calculator's precision.
func (c *Calculator) Format(x float64) string {
	return FormatFloat(x, c.precision)
}

// Display returns the formatted current value.
func (c *Calculator) Display() string {
	return c.Format(c.Value())
}

// IsOperator reports whether code is a registered operator or '='.
func (c *Calculator) IsOperator(code byte) bool {
	return code == engine.OpEvaluate || c.Known(code)
}

// IsMemoryOperator reports whether code is a memory operation.
func (c *Calculator) IsMemoryOperator(code byte) bool {
	return memcalc.IsMemoryOperator(code)
}

// CopyToMemory stores the current value in scalar memory.
func (c *Calculator) CopyToMemory() { c.SetMemory(c.Value()) }

// CopyToSlot stores the current value in memory slot i.
func (c *Calculator) CopyToSlot(i int) { c.SetSlot(i, c.Value()) }

// PushCurrent pushes the current value onto the memory stack.
func (c *Calculator) PushCurrent() { c.PushMemory(c.Value()) }

// RecallMemory replaces the current value with scalar memory.
func (c *Calculator) RecallMemory() { c.SetValue(c.Memory()) }

// RecallSlot replaces the current value with memory slot i.
func (c *Calculator) RecallSlot(i int) { c.SetValue(c.Slot(i)) }

// PopToCurrent replaces the current value with the top of the memory stack.
func (c *Calculator) PopToCurrent() { c.SetValue(c.PopMemory()) }

// ClearMemory zeroes scalar memory.
func (c *Calculator) ClearMemory() { c.SetMemory(0) }

// ClearAll resets the calculator to its initial state, wiping memory.
func (c *Calculator) ClearAll() {
	c.ClearError()
	c.ClearAllMemory()
	c.EnterValue(0)
}
