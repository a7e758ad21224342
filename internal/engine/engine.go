// Package engine implements the core of the calculator: an operand stack and
// an operator stack evaluated with the shunting-yard algorithm.
//
// Values and operators are pushed in ordinary infix order. Pushing 1, +, 1
// and then evaluating leaves 2 on the operand stack. Operators live in a
// registry keyed by operator code, so new operators can be added without
// touching the evaluation loop.
//
// Evaluation failures set a sticky error. While it is set, pushes and
// evaluations are refused with that error until ClearError is called.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Engine holds the operand and operator stacks.
type Engine struct {
	values    []float64
	ops       []byte
	operators map[byte]Operator
	err       Error
	log       *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger makes the engine log operator pushes, forced evaluations and
// error transitions to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine with the default operator set.
func New(opts ...Option) *Engine {
	e := &Engine{operators: defaultOperators()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Printf(format, args...)
	}
}

// Register adds or replaces the operator for code.
// OpNone and OpEvaluate cannot be registered.
func (e *Engine) Register(code byte, op Operator) error {
	if code == OpNone || code == OpEvaluate || op == nil {
		return ErrUnknownOperator
	}
	e.operators[code] = op
	return nil
}

// Known reports whether code is a registered operator.
func (e *Engine) Known(code byte) bool {
	_, ok := e.operators[code]
	return ok
}

// PushValue pushes v onto the operand stack.
// It fails only when the sticky error is set.
func (e *Engine) PushValue(v float64) error {
	if e.err != NoError {
		return e.err
	}
	e.values = append(e.values, v)
	return nil
}

// PopValue removes and returns the top operand, or 0 if the stack is empty.
func (e *Engine) PopValue() float64 {
	if len(e.values) == 0 {
		return 0
	}
	v := e.values[len(e.values)-1]
	e.values = e.values[:len(e.values)-1]
	return v
}

// PeekValue returns the top operand, or 0 if the stack is empty.
func (e *Engine) PeekValue() float64 {
	if len(e.values) == 0 {
		return 0
	}
	return e.values[len(e.values)-1]
}

// Value is the number a calculator display would show: the top operand, or
// 0 when there is none.
func (e *Engine) Value() float64 {
	return e.PeekValue()
}

// SetValue replaces the top operand with v, pushing it if the stack is empty.
func (e *Engine) SetValue(v float64) {
	if len(e.values) == 0 {
		e.values = append(e.values, v)
		return
	}
	e.values[len(e.values)-1] = v
}

// Clear sets the current value to zero without changing the stack depth
// (unless the stack is empty, then 0 is pushed).
func (e *Engine) Clear() {
	e.SetValue(0)
}

// PushOperator pushes an operator, first evaluating every pending operator of
// the same or higher precedence. Open parens on the stack are never forced;
// only a close paren removes them.
//
// OpEvaluate is not stored; it evaluates the whole operator stack.
func (e *Engine) PushOperator(code byte) error {
	if e.err != NoError {
		return e.err
	}
	if code == OpEvaluate {
		e.logf("operator =: evaluating the entire stack")
		return e.EvaluateAll()
	}
	incoming, ok := e.operators[code]
	if !ok {
		return ErrUnknownOperator
	}
	e.logf("pushing operator %c", code)
	for {
		top := e.PeekOperator()
		if top == OpOpenParen {
			break
		}
		topOp, ok := e.operators[top]
		if !ok || topOp.Precedence() < incoming.Precedence() {
			break
		}
		e.logf("forcing operator %c", top)
		if err := e.EvaluateOne(); err != nil {
			return err
		}
	}
	e.ops = append(e.ops, code)
	return nil
}

// PopOperator removes and returns the top operator, or OpNone.
func (e *Engine) PopOperator() byte {
	if len(e.ops) == 0 {
		return OpNone
	}
	code := e.ops[len(e.ops)-1]
	e.ops = e.ops[:len(e.ops)-1]
	return code
}

// PeekOperator returns the top operator, or OpNone.
func (e *Engine) PeekOperator() byte {
	if len(e.ops) == 0 {
		return OpNone
	}
	return e.ops[len(e.ops)-1]
}

// ReplaceOperator overwrites the top of the operator stack with code.
// It reports false if the stack is empty or code is not registered.
func (e *Engine) ReplaceOperator(code byte) bool {
	if len(e.ops) == 0 || !e.Known(code) {
		return false
	}
	e.ops[len(e.ops)-1] = code
	return true
}

// EvaluateOne pops and applies the top operator. An empty operator stack is
// not an error. Any failure becomes the sticky error.
func (e *Engine) EvaluateOne() error {
	if e.err != NoError {
		return e.err
	}
	if len(e.ops) == 0 {
		return nil
	}
	code := e.PopOperator()
	op, ok := e.operators[code]
	if !ok {
		return e.fail(ErrUnknownOperator)
	}
	if !op.Ready(e) {
		return e.fail(ErrTooFewOperands)
	}
	if err := op.Apply(e); err != nil {
		if code := asError(err); code != NoError {
			return e.fail(code)
		}
	}
	return nil
}

// EvaluateAll evaluates operators until the stack is empty or one fails.
func (e *Engine) EvaluateAll() error {
	for len(e.ops) > 0 {
		if err := e.EvaluateOne(); err != nil {
			return err
		}
	}
	return nil
}

// run executes steps in order and stops at the first failure.
func (e *Engine) run(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) fail(code Error) Error {
	e.SetError(code)
	return code
}

// SetError sets the sticky error. It returns ErrCannotClearToNoError for
// NoError; use ClearError instead.
func (e *Engine) SetError(code Error) error {
	if code == NoError {
		return ErrCannotClearToNoError
	}
	e.logf("setting error state to %d (%v)", int16(code), code)
	e.err = code
	return nil
}

// Err returns the sticky error, NoError if none is set.
func (e *Engine) Err() Error {
	return e.err
}

// Failed reports whether the sticky error is set.
func (e *Engine) Failed() bool {
	return e.err != NoError
}

// ClearError resets the sticky error and empties both stacks, making the
// engine usable again.
func (e *Engine) ClearError() {
	e.err = NoError
	e.ClearStacks()
}

// ClearStacks empties the operand and operator stacks.
func (e *Engine) ClearStacks() {
	e.values = e.values[:0]
	e.ops = e.ops[:0]
}

// ClearValues empties the operand stack only.
func (e *Engine) ClearValues() {
	e.values = e.values[:0]
}

// Depth returns the number of operands.
func (e *Engine) Depth() int { return len(e.values) }

// OperatorDepth returns the number of pending operators.
func (e *Engine) OperatorDepth() int { return len(e.ops) }

// Values returns a copy of the operand stack, bottom first.
func (e *Engine) Values() []float64 {
	return append([]float64(nil), e.values...)
}

// Operators returns a copy of the operator stack, bottom first.
func (e *Engine) Operators() []byte {
	return append([]byte(nil), e.ops...)
}

// OpenParens returns the number of open parens on the operator stack minus
// the number of close parens.
func (e *Engine) OpenParens() int {
	n := 0
	for _, code := range e.ops {
		switch code {
		case OpOpenParen:
			n++
		case OpCloseParen:
			n--
		}
	}
	return n
}

// String renders both stacks for debugging.
func (e *Engine) String() string {
	var sb strings.Builder
	sb.WriteString("Op Stack: [ ")
	if len(e.ops) == 0 {
		sb.WriteString("EMPTY ")
	}
	for _, code := range e.ops {
		sb.WriteByte(code)
		sb.WriteByte(' ')
	}
	sb.WriteString("]  Val Stack: [ ")
	if len(e.values) == 0 {
		sb.WriteString("EMPTY ")
	}
	for _, v := range e.values {
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		sb.WriteByte(' ')
	}
	sb.WriteString("]")
	if e.err != NoError {
		fmt.Fprintf(&sb, "  Error: %v", e.err)
	}
	return sb.String()
}
