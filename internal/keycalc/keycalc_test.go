package keycalc

import (
	"errors"
	"testing"

	"github.com/fjl/gio-calc/internal/engine"
)

// press sends every key of seq and fails the test on any error.
func press(t *testing.T, c *Calculator, seq string) {
	t.Helper()
	for i := 0; i < len(seq); i++ {
		if err := c.Key(seq[i]); err != nil {
			t.Fatalf("key %q (index %d of %q): %v\nstate: %v %v", seq[i], i, seq, err, c.State(), c.Engine)
		}
	}
}

func check(t *testing.T, c *Calculator, text string) {
	t.Helper()
	if c.Display() != text {
		t.Fatalf("wrong text\n  got: %q\n want: %q\nstate: %v %v", c.Display(), text, c.State(), c.Engine)
	}
}

func checkState(t *testing.T, c *Calculator, want State) {
	t.Helper()
	if c.State() != want {
		t.Fatalf("wrong state %v, want %v", c.State(), want)
	}
}

func rejected(t *testing.T, c *Calculator, code byte) {
	t.Helper()
	if err := c.Key(code); !errors.Is(err, ErrRejected) {
		t.Fatalf("key %q: got %v, want rejection", code, err)
	}
}

func TestBasic(t *testing.T) {
	c := New()
	check(t, c, "0")
	checkState(t, c, ReadyForAny)
	press(t, c, "12.5")
	check(t, c, "12.5")
	checkState(t, c, EnteringNumber)
	press(t, c, "+3*(2-1)")
	checkState(t, c, ReadyForOperator)
	press(t, c, "=")
	check(t, c, "15.5")
	checkState(t, c, ReadyForAny)
}

func TestEntry(t *testing.T) {
	c := New()
	press(t, c, ".5")
	check(t, c, "0.5")
	rejected(t, c, '.')
	press(t, c, "BB")
	check(t, c, "0")
	press(t, c, "B")
	checkState(t, c, ReadyForAny)
	rejected(t, c, 'B')
	press(t, c, "007")
	check(t, c, "7")
}

func TestChaining(t *testing.T) {
	c := New()
	press(t, c, "1+1=")
	check(t, c, "2")
	press(t, c, "=")
	check(t, c, "4")
	press(t, c, "=")
	check(t, c, "8")

	c = New()
	press(t, c, "3*=")
	check(t, c, "9")
}

func TestOperatorSubstitution(t *testing.T) {
	c := New()
	press(t, c, "1+*2=")
	check(t, c, "2")

	// Parens are never substituted.
	c = New()
	press(t, c, "2*(")
	rejected(t, c, '+')
	press(t, c, "3+4)=")
	check(t, c, "14")
}

func TestPercent(t *testing.T) {
	c := New()
	press(t, c, "50%")
	check(t, c, "0.5")
	checkState(t, c, ReadyForAny)
	press(t, c, "=")
	check(t, c, "0.5")

	c = New()
	press(t, c, "200+10%")
	check(t, c, "20")
	press(t, c, "=")
	check(t, c, "220")
}

func TestUnaryOperators(t *testing.T) {
	c := New()
	press(t, c, "9r")
	check(t, c, "3")
	press(t, c, "s")
	check(t, c, "9")

	c = New()
	press(t, c, "4`")
	if err := c.Key('r'); err != engine.ErrInvalidOperand {
		t.Fatalf("got error %v, want invalid operand", err)
	}
	checkState(t, c, Error)
}

func TestFreshGrouping(t *testing.T) {
	c := New()
	press(t, c, "3+4=")
	check(t, c, "7")
	press(t, c, "(")
	if c.Depth() != 0 {
		t.Fatalf("stale operands after open paren: %v", c.ValueStack())
	}
	press(t, c, "2*5)=")
	check(t, c, "10")
}

func TestCloseParen(t *testing.T) {
	c := New()
	press(t, c, "5")
	rejected(t, c, ')')
	press(t, c, "+(1+2")
	if c.OpenParens() != 1 {
		t.Fatalf("open parens = %d", c.OpenParens())
	}
	press(t, c, ")")
	check(t, c, "3")
	checkState(t, c, ReadyForOperator)
	rejected(t, c, '7')
	press(t, c, "=")
	check(t, c, "8")
}

func TestErrorState(t *testing.T) {
	c := New()
	press(t, c, "5/0")
	err := c.Key('=')
	if err != engine.ErrDivideByZero {
		t.Fatalf("got %v, want divide by zero", err)
	}
	checkState(t, c, Error)
	for _, code := range []byte("1+=M(") {
		rejected(t, c, code)
	}
	checkState(t, c, Error)
	press(t, c, "A")
	checkState(t, c, ReadyForAny)
	check(t, c, "0")
	press(t, c, "2+2=")
	check(t, c, "4")
}

func TestClear(t *testing.T) {
	c := New()
	press(t, c, "5+3")
	press(t, c, "A")
	check(t, c, "0")
	checkState(t, c, ReadyForNumber)
	press(t, c, "4=")
	check(t, c, "9")

	press(t, c, "A")
	check(t, c, "0")
	checkState(t, c, ReadyForAny)
}

func TestClearAll(t *testing.T) {
	c := New()
	press(t, c, "7M=M3=")
	if c.Memory() != 7 || c.Slot(3) != 7 {
		t.Fatalf("memory not stored: %v %v", c.Memory(), c.Slot(3))
	}
	// A single clear keeps memory.
	press(t, c, "A")
	if c.Memory() != 7 {
		t.Fatal("single clear wiped memory")
	}
	press(t, c, "1A")
	if c.Memory() != 7 {
		t.Fatal("clear after accepted key wiped memory")
	}
	// Two in a row clear everything.
	press(t, c, "A")
	if c.Memory() != 0 || c.Slot(3) != 0 {
		t.Fatal("double clear kept memory")
	}
	check(t, c, "0")
}

func TestMemoryRoundTrip(t *testing.T) {
	c := New()
	press(t, c, "42")
	press(t, c, "M5=")
	checkState(t, c, ReadyForAny)
	press(t, c, "AM5M")
	check(t, c, "42")

	// Address 999 does not fit into 100 slots.
	press(t, c, "M99")
	rejected(t, c, '9')
	checkState(t, c, EnteringMemory)
	if id := c.MemoryID(); id != "M[99]  (0)" {
		t.Fatalf("wrong memory ID %q", id)
	}
	press(t, c, ".")
	checkState(t, c, ReadyForAny)
}

func TestMemoryOperations(t *testing.T) {
	c := New(WithMemorySlots(10))
	press(t, c, "10M=")
	press(t, c, "5M+")
	if c.Memory() != 15 {
		t.Fatalf("memory = %v, want 15", c.Memory())
	}
	press(t, c, "0")
	if err := c.Key('M'); err != nil {
		t.Fatal(err)
	}
	if err := c.Key('/'); err != engine.ErrDivideByZero {
		t.Fatalf("got %v, want divide by zero", err)
	}
	if c.Failed() {
		t.Fatal("memory operation set the sticky error")
	}
	if c.Memory() != 15 {
		t.Fatal("failed memory operation changed memory")
	}

	// One digit addresses with ten slots.
	press(t, c, "M7")
	rejected(t, c, '1')
	press(t, c, "B")
	if c.MemoryID() != "M[_]  (15)" {
		t.Fatalf("wrong memory ID %q", c.MemoryID())
	}
	press(t, c, "M")
	check(t, c, "15")

	// Unknown keys abort memory entry.
	press(t, c, "M")
	rejected(t, c, 'x')
	checkState(t, c, ReadyForAny)
}

func TestMemoryRecallAsOperand(t *testing.T) {
	c := New()
	press(t, c, "3M=")
	press(t, c, "4+MM=")
	check(t, c, "7")
}

func TestChangeSign(t *testing.T) {
	c := New()
	rejected(t, c, '`')
	press(t, c, "5`")
	check(t, c, "-5")
	checkState(t, c, EnteringNumber)
	press(t, c, "+3=")
	check(t, c, "-2")
	press(t, c, "`")
	check(t, c, "2")
	press(t, c, "+3`=")
	check(t, c, "-1")
}

func TestStatus(t *testing.T) {
	c := New()
	if s := c.Status(); s != "" {
		t.Fatalf("status %q, want empty", s)
	}
	press(t, c, "((")
	if s := c.Status(); s != "((" {
		t.Fatalf("status %q", s)
	}
	press(t, c, "2))=")
	press(t, c, "M1=M2=M=")
	c.PushCurrent()
	c.PushCurrent()
	if s, want := c.Status(), "M[1,2]  S(2)  M=2"; s != want {
		t.Fatalf("status %q, want %q", s, want)
	}

	c = New(WithStatusSlots(2))
	press(t, c, "1M0=M1=M2=(")
	if s, want := c.Status(), "( M[0,1,...]"; s != want {
		t.Fatalf("status %q, want %q", s, want)
	}
}

func TestStacks(t *testing.T) {
	c := New()
	press(t, c, "1+2*3")
	if s := c.OperatorStack(); s != "[ + * ]" {
		t.Fatalf("operator stack %q", s)
	}
	if s := c.ValueStack(); s != "[ 1 2 ]" {
		t.Fatalf("value stack %q", s)
	}
}

func TestSetValueAndParse(t *testing.T) {
	c := New()
	press(t, c, "12")
	c.SetValue(3.5)
	check(t, c, "3.5")
	checkState(t, c, ReadyForAny)
	press(t, c, "*2=")
	check(t, c, "7")

	if err := c.Parse("1 +"); err != nil {
		t.Fatal(err)
	}
	checkState(t, c, ReadyForNumber)
	press(t, c, "1=")
	check(t, c, "2")

	if err := c.Parse("2 * (1 + 2)"); err != nil {
		t.Fatal(err)
	}
	checkState(t, c, ReadyForOperator)
	press(t, c, "=")
	check(t, c, "6")

	if err := c.Parse(")"); err != engine.ErrNoMatchingParen {
		t.Fatalf("got %v", err)
	}
	checkState(t, c, Error)
}

func TestCancelInput(t *testing.T) {
	c := New()
	press(t, c, "1+23")
	c.CancelInput()
	checkState(t, c, ReadyForNumber)
	check(t, c, "1")
	press(t, c, "M4")
	c.CancelInput()
	checkState(t, c, ReadyForAny)
}

func TestSynced(t *testing.T) {
	s := NewSynced(New())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.Status()
		}
	}()
	for _, code := range []byte("6*7=") {
		if err := s.Key(code); err != nil {
			t.Fatal(err)
		}
	}
	<-done
	if s.Display() != "42" {
		t.Fatalf("got %q", s.Display())
	}
}

func TestStateNames(t *testing.T) {
	if ReadyForAny.String() != "ReadyForAny" || Error.Letter() != 'X' || EnteringNumber.Letter() != '>' {
		t.Fatal("wrong state names")
	}
}
