package engine

import "math"

// Operator codes. Operators are identified by a single byte, usually the
// character printed on the key.
const (
	OpNone       byte = 0 // result of peeking or popping an empty operator stack
	OpAdd        byte = '+'
	OpSubtract   byte = '-'
	OpMultiply   byte = '*'
	OpDivide     byte = '/'
	OpPercent    byte = '%'
	OpOpenParen  byte = '('
	OpCloseParen byte = ')'
	OpSquare     byte = 's'
	OpSquareRoot byte = 'r'
	OpEvaluate   byte = '=' // not a stored operator, see PushOperator
)

// Operator precedence. Higher binds tighter.
const (
	PrecEvaluate       uint8 = 0
	PrecAdditive       uint8 = 50
	PrecMultiplicative uint8 = 100
	PrecPower          uint8 = 150
	PrecUnarySign      uint8 = 200 // reserved for unary +/-, unused
	PrecGrouping       uint8 = 250
)

// Operator is the behavior registered for an operator code.
//
// Apply must pop the operands it uses and push its result. It must not pop
// the operator itself; EvaluateOne has already done that.
type Operator interface {
	Precedence() uint8
	// Ready reports whether the operand stack holds enough values.
	Ready(e *Engine) bool
	Apply(e *Engine) error
}

func defaultOperators() map[byte]Operator {
	return map[byte]Operator{
		OpAdd:        binaryOp{PrecAdditive, add},
		OpSubtract:   binaryOp{PrecAdditive, subtract},
		OpMultiply:   binaryOp{PrecMultiplicative, multiply},
		OpDivide:     binaryOp{PrecMultiplicative, divide},
		OpOpenParen:  openParenOp{},
		OpCloseParen: closeParenOp{},
		OpPercent:    percentOp{},
		OpSquare:     unaryOp{PrecPower, square},
		OpSquareRoot: unaryOp{PrecPower, squareRoot},
	}
}

func add(x, y float64) (float64, error)      { return x + y, nil }
func subtract(x, y float64) (float64, error) { return x - y, nil }
func multiply(x, y float64) (float64, error) { return x * y, nil }

func divide(x, y float64) (float64, error) {
	if y == 0 {
		return 0, ErrDivideByZero
	}
	return x / y, nil
}

func square(x float64) (float64, error) { return x * x, nil }

func squareRoot(x float64) (float64, error) {
	if x < 0 {
		return 0, ErrInvalidOperand
	}
	return math.Sqrt(x), nil
}

// overflowed reports whether result left the float range although none of
// the inputs had.
func overflowed(result float64, inputs ...float64) bool {
	if !math.IsInf(result, 0) {
		return false
	}
	for _, in := range inputs {
		if math.IsInf(in, 0) {
			return false
		}
	}
	return true
}

// binaryOp computes x OP y where y is the latest operand.
type binaryOp struct {
	prec  uint8
	apply func(x, y float64) (float64, error)
}

func (op binaryOp) Precedence() uint8    { return op.prec }
func (op binaryOp) Ready(e *Engine) bool { return len(e.values) >= 2 }

func (op binaryOp) Apply(e *Engine) error {
	y := e.PopValue()
	x := e.PopValue()
	result, err := op.apply(x, y)
	if err != nil {
		return err
	}
	if overflowed(result, x, y) {
		return ErrOverflow
	}
	e.values = append(e.values, result)
	return nil
}

type unaryOp struct {
	prec  uint8
	apply func(x float64) (float64, error)
}

func (op unaryOp) Precedence() uint8    { return op.prec }
func (op unaryOp) Ready(e *Engine) bool { return len(e.values) >= 1 }

func (op unaryOp) Apply(e *Engine) error {
	x := e.PopValue()
	result, err := op.apply(x)
	if err != nil {
		return err
	}
	if overflowed(result, x) {
		return ErrOverflow
	}
	e.values = append(e.values, result)
	return nil
}

// openParenOp only marks the start of a group on the operator stack.
type openParenOp struct{}

func (openParenOp) Precedence() uint8    { return PrecGrouping }
func (openParenOp) Ready(e *Engine) bool { return true }
func (openParenOp) Apply(e *Engine) error {
	return nil
}

// closeParenOp evaluates until the matching open paren is on top, then drops
// it. The group's result is left on the operand stack.
type closeParenOp struct{}

func (closeParenOp) Precedence() uint8    { return PrecGrouping }
func (closeParenOp) Ready(e *Engine) bool { return true }

func (closeParenOp) Apply(e *Engine) error {
	for e.PeekOperator() != OpOpenParen {
		if len(e.ops) == 0 {
			return ErrNoMatchingParen
		}
		if err := e.EvaluateOne(); err != nil {
			return err
		}
	}
	e.PopOperator()
	return nil
}

// percentOp depends on what is pending beneath it.
//
// With nothing pending (or an open paren), V% is V/100.
// With a pending additive operator, A + V% becomes A + A*V/100: the
// operand V is replaced by A*V/100 and the pending operator is left for
// a later evaluation. Multiplicative operators were already forced by
// PushOperator, so A / V % is (A/V)/100.
//
// Both forms are written as a sequence of pushes and evaluations on the
// engine itself. This re-enters the engine while EvaluateOne is running,
// which is fine because nothing else can use it concurrently.
type percentOp struct{}

func (percentOp) Precedence() uint8    { return PrecMultiplicative }
func (percentOp) Ready(e *Engine) bool { return len(e.values) >= 1 }

func (percentOp) Apply(e *Engine) error {
	if len(e.ops) == 0 || e.PeekOperator() == OpOpenParen {
		return e.run(
			func() error { return e.PushOperator(OpDivide) },
			func() error { return e.PushValue(100) },
			e.EvaluateOne,
		)
	}
	v := e.PopValue()
	left := e.Value()
	return e.run(
		func() error { return e.PushValue(left) },
		func() error { return e.PushOperator(OpMultiply) },
		func() error { return e.PushValue(v) },
		func() error { return e.PushOperator(OpDivide) },
		func() error { return e.PushValue(100) },
		e.EvaluateOne,
	)
}
