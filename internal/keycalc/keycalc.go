// Package keycalc implements a hand calculator driven by single key codes.
//
// Keys are the operator codes of the engine ("+-*/%()sr="), the digits, and
//
//	.  decimal point
//	B  backspace
//	`  change sign
//	A  clear; pressed twice, clear everything including memory
//	M  memory command
//
// Memory commands start with M:
//
//	MM    recall memory          M5M   recall M[5]
//	M=    store to memory        M5=   store to M[5]
//	MA    clear memory           M5A   clear M[5]
//	M+    add to memory (also - * / %)
//	M.    cancel
package keycalc

import (
	"errors"
	"fmt"
	"log"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/textcalc"
)

// Key codes that are not engine operators.
const (
	KeyPoint     byte = '.'
	KeyBackspace byte = 'B'
	KeySign      byte = '`'
	KeyClear     byte = 'A'
	KeyMemory    byte = 'M'
)

// DefaultStatusSlots is the number of used memory slots listed by Status.
const DefaultStatusSlots = 8

// maxEntry limits the length of a typed number.
const maxEntry = 24

// ErrRejected is returned by Key for keys that are not accepted in the
// current state. Calculator state is unchanged.
var ErrRejected = errors.New("key rejected")

func reject(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// Calculator is a keystroke-driven calculator.
type Calculator struct {
	*textcalc.Calculator

	state        State
	resume       State  // state before the memory key
	entry        []byte // number being typed
	address      []byte // memory address being typed
	clearPresses int
	repeat       byte // binary operator repeated by '='
	afterEquals  bool
	statusSlots  int
	log          *log.Logger
}

type config struct {
	text        []textcalc.Option
	statusSlots int
	log         *log.Logger
}

// Option configures a Calculator.
type Option func(*config)

// WithPrecision sets the number of decimals shown.
func WithPrecision(n int) Option {
	return func(c *config) { c.text = append(c.text, textcalc.WithPrecision(n)) }
}

// WithMemorySlots sets the number of indexed memory slots.
func WithMemorySlots(n int) Option {
	return func(c *config) { c.text = append(c.text, textcalc.WithMemorySlots(n)) }
}

// WithStatusSlots sets how many used memory slots Status lists before
// abbreviating.
func WithStatusSlots(n int) Option {
	return func(c *config) { c.statusSlots = n }
}

// WithLogger logs state changes and engine activity to l.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.log = l
		c.text = append(c.text, textcalc.WithLogger(l))
	}
}

// New creates a calculator in state ReadyForAny, showing 0.
func New(opts ...Option) *Calculator {
	cfg := config{statusSlots: DefaultStatusSlots}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.statusSlots <= 0 {
		cfg.statusSlots = DefaultStatusSlots
	}
	return &Calculator{
		Calculator:  textcalc.New(cfg.text...),
		state:       ReadyForAny,
		statusSlots: cfg.statusSlots,
		log:         cfg.log,
	}
}

// State returns the current input state.
func (c *Calculator) State() State { return c.state }

func (c *Calculator) setState(s State) {
	if s != c.state && c.log != nil {
		c.log.Printf("state %v -> %v", c.state, s)
	}
	c.state = s
}

// Key processes a single key.
//
// It returns nil if the key was accepted, an error wrapping ErrRejected if it
// was not, and an engine.Error if the key was accepted but the evaluation it
// triggered failed.
func (c *Calculator) Key(code byte) error {
	if c.Failed() {
		c.setState(Error)
	}
	if c.state == Error {
		if code != KeyClear {
			return reject("only clear is accepted after %q", c.Err().Label())
		}
		c.ClearError()
		c.resetInput()
		c.EnterValue(0)
		c.repeat = 0
		c.clearPresses = 1
		c.setState(ReadyForAny)
		return nil
	}

	var err error
	if code == KeyClear && c.state != EnteringMemory {
		err = c.clear()
	} else {
		err = c.dispatch(code)
		if !errors.Is(err, ErrRejected) {
			c.clearPresses = 0
		}
	}
	c.afterEquals = code == engine.OpEvaluate && err == nil
	if c.Failed() {
		c.setState(Error)
	}
	return err
}

func (c *Calculator) dispatch(code byte) error {
	if c.state == EnteringMemory {
		return c.memoryKey(code)
	}

	if code == engine.OpEvaluate {
		switch {
		case c.state == ReadyForNumber && isArithmetic(c.PeekOperator()):
			// 2 + = is 2 + 2.
			if len(c.entry) == 0 {
				if err := c.EnterValue(c.Value()); err != nil {
					return err
				}
				c.setState(ReadyForOperator)
			}
		case c.state == ReadyForAny && c.afterEquals && c.repeat != 0 && c.OperatorDepth() == 0:
			// Each further '=' applies the last operator to the result.
			v := c.Value()
			if err := c.PushOperator(c.repeat); err != nil {
				return err
			}
			if err := c.PushValue(v); err != nil {
				return err
			}
			c.setState(ReadyForOperator)
		}
	}

	// 15 + * means 15 *.
	if c.state == ReadyForNumber && isArithmetic(code) && isArithmetic(c.PeekOperator()) {
		c.ReplaceOperator(code)
		return nil
	}

	if c.state == ReadyForAny || c.state == ReadyForNumber || c.state == EnteringNumber {
		if isDigit(code) || code == KeyPoint || code == KeyBackspace {
			return c.buildNumber(code)
		}
		if code == engine.OpOpenParen {
			c.entry = c.entry[:0]
			if err := c.EnterOperator(code); err != nil {
				return err
			}
			c.setState(ReadyForNumber)
			return nil
		}
	}
	if code == KeySign {
		return c.changeSign()
	}

	if err := c.CommitEntry(); err != nil {
		return err
	}
	if (c.state == ReadyForAny && c.Depth() > 0) || c.state == ReadyForOperator {
		if c.IsOperator(code) {
			return c.operatorKey(code)
		}
	}
	if code == KeyMemory {
		c.resume = c.state
		c.address = c.address[:0]
		c.setState(EnteringMemory)
		return nil
	}
	return reject("key %q in state %v", code, c.state)
}

func (c *Calculator) operatorKey(code byte) error {
	if code == engine.OpCloseParen && c.OpenParens() <= 0 {
		return reject("no open paren")
	}
	if code == engine.OpEvaluate {
		c.repeat = c.pendingArithmetic()
	}
	if err := c.EnterOperator(code); err != nil {
		return err
	}
	var err error
	next := ReadyForNumber
	switch code {
	case engine.OpEvaluate:
		next = ReadyForAny
	case engine.OpCloseParen:
		next = ReadyForOperator
	case engine.OpPercent, engine.OpSquare, engine.OpSquareRoot:
		err = c.EvaluateOne()
		next = ReadyForAny
	}
	c.setState(next)
	return err
}

// pendingArithmetic returns the topmost binary arithmetic operator on the
// operator stack.
func (c *Calculator) pendingArithmetic() byte {
	ops := c.Operators()
	for i := len(ops) - 1; i >= 0; i-- {
		if isArithmetic(ops[i]) {
			return ops[i]
		}
	}
	return engine.OpNone
}

// clear handles the clear key. The first press clears the current value,
// the second in a row clears everything.
func (c *Calculator) clear() error {
	c.clearPresses++
	if c.clearPresses > 1 {
		c.ClearAll()
		c.resetInput()
		c.repeat = 0
		c.setState(ReadyForAny)
		return nil
	}

	c.entry = c.entry[:0]
	if c.OperatorDepth() == 0 {
		c.Clear()
	} else {
		// Show a zero for the pending operand without disturbing the
		// operands below it.
		c.entry = append(c.entry, '0')
	}
	if top := c.PeekOperator(); top != engine.OpNone && top != engine.OpOpenParen {
		c.setState(ReadyForNumber)
	} else {
		c.setState(ReadyForAny)
	}
	return nil
}

func (c *Calculator) buildNumber(code byte) error {
	switch {
	case code == KeyBackspace:
		if len(c.entry) == 0 {
			return reject("nothing to delete")
		}
		c.entry = c.entry[:len(c.entry)-1]
		if len(c.entry) == 1 && c.entry[0] == '-' {
			c.entry = c.entry[:0]
		}
		if len(c.entry) == 0 {
			c.cancelEntry()
			return nil
		}
	case len(c.entry) >= maxEntry:
		return reject("number too long")
	case code == KeyPoint:
		for _, ch := range c.entry {
			if ch == KeyPoint {
				return reject("second decimal point")
			}
		}
		if len(c.entry) == 0 {
			c.entry = append(c.entry, '0')
		}
		c.entry = append(c.entry, code)
	default:
		if string(c.entry) == "0" {
			c.entry = c.entry[:0]
		}
		c.entry = append(c.entry, code)
	}
	c.setState(EnteringNumber)
	return nil
}

func (c *Calculator) changeSign() error {
	if len(c.entry) > 0 {
		if v, _ := c.entryValue(); v == 0 {
			return reject("cannot change the sign of zero")
		}
		if c.entry[0] == '-' {
			c.entry = c.entry[1:]
		} else {
			c.entry = append([]byte{'-'}, c.entry...)
		}
		return nil
	}
	v := c.Value()
	if c.Depth() == 0 || v == 0 {
		return reject("cannot change the sign of zero")
	}
	c.Engine.SetValue(-v)
	return nil
}

// CommitEntry pushes the number being typed, if any.
func (c *Calculator) CommitEntry() error {
	if len(c.entry) == 0 {
		return nil
	}
	v, err := c.entryValue()
	c.entry = c.entry[:0]
	if err != nil {
		return err
	}
	if err := c.EnterValue(v); err != nil {
		return err
	}
	c.setState(ReadyForOperator)
	return nil
}

func (c *Calculator) entryValue() (float64, error) {
	s := string(c.entry)
	neg := len(s) > 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}
	v, err := textcalc.ParseFloat(s)
	if neg {
		v = -v
	}
	return v, err
}

// CancelInput discards a number or memory address being typed.
func (c *Calculator) CancelInput() {
	switch c.state {
	case EnteringNumber:
		c.cancelEntry()
	case EnteringMemory:
		c.address = c.address[:0]
		c.setState(ReadyForAny)
	}
}

func (c *Calculator) cancelEntry() {
	c.entry = c.entry[:0]
	if c.OperatorDepth() > 0 {
		c.setState(ReadyForNumber)
	} else {
		c.setState(ReadyForAny)
	}
}

// SetValue enters v as if it had been typed and completed.
func (c *Calculator) SetValue(v float64) error {
	if c.Failed() {
		return c.Err()
	}
	c.resetInput()
	if err := c.EnterValue(v); err != nil {
		return err
	}
	c.setState(ReadyForAny)
	return nil
}

// Parse enters a whole statement. Input in progress is discarded.
func (c *Calculator) Parse(statement string) error {
	c.resetInput()
	err := c.Calculator.Parse(statement)
	last := lastChar(statement)
	switch {
	case c.Failed():
		c.setState(Error)
	case err != nil:
		c.setState(ReadyForAny)
	case isArithmetic(last) || last == engine.OpOpenParen:
		c.setState(ReadyForNumber)
	case (textcalc.IsNumeric(last) || last == engine.OpCloseParen) && c.OperatorDepth() > 0:
		c.setState(ReadyForOperator)
	default:
		c.setState(ReadyForAny)
	}
	return err
}

// lastChar returns the last non-space character of s.
func lastChar(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		if !textcalc.IsSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

func (c *Calculator) resetInput() {
	c.entry = c.entry[:0]
	c.address = c.address[:0]
}

func isDigit(code byte) bool {
	return code >= '0' && code <= '9'
}

func isArithmetic(code byte) bool {
	switch code {
	case engine.OpAdd, engine.OpSubtract, engine.OpMultiply, engine.OpDivide:
		return true
	}
	return false
}
