package keycalc

import "fmt"

// State is the input state of the key calculator.
type State int

const (
	ReadyForAny      State = iota // initial; anything goes
	ReadyForNumber                // waiting for a digit, '.', sign change or '('
	ReadyForOperator              // waiting for an operator
	EnteringNumber                // a number is being typed
	EnteringMemory                // a memory command is being typed
	Error                         // the engine failed; only clear is accepted
)

var stateNames = [...]string{
	ReadyForAny:      "ReadyForAny",
	ReadyForNumber:   "ReadyForNumber",
	ReadyForOperator: "ReadyForOperator",
	EnteringNumber:   "EnteringNumber",
	EnteringMemory:   "EnteringMemory",
	Error:            "Error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Letter returns the one-letter code shown in compact status displays.
func (s State) Letter() byte {
	switch s {
	case ReadyForAny:
		return 'A'
	case ReadyForNumber:
		return 'N'
	case ReadyForOperator:
		return 'O'
	case EnteringNumber:
		return '>'
	case EnteringMemory:
		return 'M'
	case Error:
		return 'X'
	}
	return '?'
}
