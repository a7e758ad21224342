package textcalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SyntaxError is returned for input that is neither a number, an operator
// nor whitespace.
type SyntaxError struct {
	Pos  int  // byte offset in the input
	Char byte // offending character
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: unexpected %q", e.Pos, e.Char)
}

// FormatFloat renders x with at most precision decimals. Trailing zeros and
// a trailing decimal point are dropped, and values that round to zero
// render as "0".
func FormatFloat(x float64, precision int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	if precision < 0 {
		precision = 0
	}
	s := strconv.FormatFloat(x, 'f', precision, 64)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// ParseFloat parses a numeric literal of digits and at most one decimal
// point. The empty string and "." are zero.
func ParseFloat(s string) (float64, error) {
	dot := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '.' && !dot:
			dot = true
		case isDigit(s[i]):
		default:
			return 0, &SyntaxError{Pos: i, Char: s[i]}
		}
	}
	if s == "" || s == "." {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// IsNumeric reports whether ch can be part of a numeric literal.
func IsNumeric(ch byte) bool {
	return isDigit(ch) || ch == '.'
}

// IsSpace reports whether ch is skipped by Parse.
func IsSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
