package textcalc

import (
	"errors"
	"math"
	"testing"

	"github.com/fjl/gio-calc/internal/engine"
)

func check(t *testing.T, c *Calculator, text string) {
	t.Helper()
	if c.Display() != text {
		t.Fatalf("wrong text\n  got: %q\n want: %q\nstate: %v", c.Display(), text, c.Engine)
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 1 =", "2"},
		{"12.5 + 3 * ( 2 - 1 ) =", "15.5"},
		{"2 * (3 + 4) =", "14"},
		{"10 - 4 - 3 =", "3"},
		{"100 / 8 =", "12.5"},
		{"50 % =", "0.5"},
		{"200 + 10 % =", "220"},
		{"9 r =", "3"},
		{"1.5 s =", "2.25"},
		{"1 / 3 =", "0.33333333"},
		{".5 + .25 =", "0.75"},
		{"((2)) =", "2"},
	}
	for _, test := range tests {
		c := New()
		got, err := c.Eval(test.input)
		if err != nil {
			t.Errorf("%q: error %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestStaleResults(t *testing.T) {
	c := New()
	for i := 0; i < 3; i++ {
		if err := c.Parse("1+1="); err != nil {
			t.Fatal(err)
		}
	}
	check(t, c, "2")
	if c.Depth() != 1 {
		t.Fatalf("stale results left on the stack: %v", c.Values())
	}
}

func TestFreshGrouping(t *testing.T) {
	c := New()
	c.Parse("3 + 4 =")
	if err := c.EnterOperator('('); err != nil {
		t.Fatal(err)
	}
	if c.Depth() != 0 {
		t.Fatalf("open paren kept stale operands: %v", c.Values())
	}
	c.Parse("2 * 5 ) =")
	check(t, c, "10")
}

func TestUnmatchedParen(t *testing.T) {
	c := New()
	err := c.Parse(")")
	if err != engine.ErrNoMatchingParen {
		t.Fatalf("got %v, want %v", err, engine.ErrNoMatchingParen)
	}
	if c.Err() != engine.ErrNoMatchingParen {
		t.Fatal("sticky error not set")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		char  byte
	}{
		{"1 + x", 4, 'x'},
		{"1.2.3", 3, '.'},
		{"2 * 3..", 6, '.'},
	}
	for _, test := range tests {
		c := New()
		err := c.Parse(test.input)
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("%q: got %v, want syntax error", test.input, err)
			continue
		}
		if serr.Pos != test.pos || serr.Char != test.char {
			t.Errorf("%q: got error at %d (%q), want %d (%q)", test.input, serr.Pos, serr.Char, test.pos, test.char)
		}
		if c.Failed() {
			t.Errorf("%q: syntax error set the sticky error", test.input)
		}
	}
}

func TestDivideByZero(t *testing.T) {
	c := New()
	if err := c.Parse("5 / 0 ="); err != engine.ErrDivideByZero {
		t.Fatalf("got %v", err)
	}
	if err := c.Parse("1"); err != engine.ErrDivideByZero {
		t.Fatalf("push accepted while error set: %v", err)
	}
	c.ClearError()
	if _, err := c.Eval("1 + 2 ="); err != nil {
		t.Fatal(err)
	}
	check(t, c, "3")
}

func TestMemoryConveniences(t *testing.T) {
	c := New(WithMemorySlots(10))
	c.Parse("6 * 7 =")
	c.CopyToMemory()
	c.CopyToSlot(3)
	c.PushCurrent()
	c.Parse("1 =")
	c.RecallMemory()
	check(t, c, "42")
	c.Parse("0")
	c.RecallSlot(3)
	check(t, c, "42")
	c.Parse("0")
	c.PopToCurrent()
	check(t, c, "42")
	if c.MemoryDepth() != 0 {
		t.Fatal("PopToCurrent did not pop")
	}
	c.ClearMemory()
	if c.Memory() != 0 {
		t.Fatal("ClearMemory failed")
	}
	c.ClearAll()
	check(t, c, "0")
	if c.Slot(3) != 0 {
		t.Fatal("ClearAll kept memory")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		x    float64
		prec int
		want string
	}{
		{0, 8, "0"},
		{9.9, 8, "9.9"},
		{-9.9, 8, "-9.9"},
		{0.1, 8, "0.1"},
		{-0.1, 8, "-0.1"},
		{123456.789, 8, "123456.789"},
		{100000000, 8, "100000000"},
		{1e-9, 8, "0"},
		{-1e-9, 8, "0"},
		{2.5, 0, "2"},
		{1.23456, 2, "1.23"},
		{math.Inf(1), 8, "Inf"},
		{math.Inf(-1), 8, "-Inf"},
		{math.NaN(), 8, "NaN"},
	}
	for _, test := range tests {
		if got := FormatFloat(test.x, test.prec); got != test.want {
			t.Errorf("FormatFloat(%v, %d) = %q, want %q", test.x, test.prec, got, test.want)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	const prec = 8
	for _, x := range []float64{0, 0.1, -0.1, 9.9, -9.9, 123456.789, 100000000} {
		s := FormatFloat(x, prec)
		neg := len(s) > 0 && s[0] == '-'
		if neg {
			s = s[1:]
		}
		y, err := ParseFloat(s)
		if err != nil {
			t.Fatalf("%v: %v", x, err)
		}
		if neg {
			y = -y
		}
		if math.Abs(x-y) > math.Pow(10, -prec) {
			t.Errorf("round trip of %v gave %v", x, y)
		}
	}
}

func TestParseFloat(t *testing.T) {
	for _, s := range []string{"", "."} {
		if v, err := ParseFloat(s); v != 0 || err != nil {
			t.Errorf("ParseFloat(%q) = %v, %v", s, v, err)
		}
	}
	if v, _ := ParseFloat("5."); v != 5 {
		t.Errorf("ParseFloat(\"5.\") = %v", v)
	}
	if _, err := ParseFloat("1-"); err == nil {
		t.Error("no error for invalid literal")
	}
}
