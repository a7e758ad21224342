package engine

import "fmt"

// Error is a calculator error code. The zero value NoError means no error;
// all other codes are negative.
type Error int16

const (
	NoError                 Error = 0
	ErrTooFewOperands       Error = -1
	ErrUnknownOperator      Error = -2
	ErrDivideByZero         Error = -3
	ErrCannotClearToNoError Error = -4 // SetError(NoError) is not allowed, use ClearError
	ErrNoMatchingParen      Error = -5
	ErrOverflow             Error = -6
	ErrInvalidOperand       Error = -7
)

// Error implements the error interface.
func (e Error) Error() string {
	switch e {
	case NoError:
		return "no error"
	case ErrTooFewOperands:
		return "too few operands"
	case ErrUnknownOperator:
		return "unknown operator"
	case ErrDivideByZero:
		return "divide by zero"
	case ErrCannotClearToNoError:
		return "cannot set error state to none"
	case ErrNoMatchingParen:
		return "no matching open paren"
	case ErrOverflow:
		return "overflow"
	case ErrInvalidOperand:
		return "invalid operand"
	default:
		return fmt.Sprintf("unknown error %d", int16(e))
	}
}

// Label is the short text shown on a calculator display for e.
func (e Error) Label() string {
	switch e {
	case ErrTooFewOperands:
		return "Too Few Operands"
	case ErrUnknownOperator:
		return "Unknown Operator"
	case ErrDivideByZero:
		return "Divide by Zero"
	case ErrNoMatchingParen:
		return "No Matching ("
	case ErrOverflow:
		return "Overflow"
	case ErrInvalidOperand:
		return "Invalid Operand"
	default:
		return fmt.Sprintf("Unknown Error: %d", int16(e))
	}
}

// asError converts a nil-or-Error result into an Error code.
// Errors of other types map to ErrUnknownOperator.
func asError(err error) Error {
	if err == nil {
		return NoError
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return ErrUnknownOperator
}
