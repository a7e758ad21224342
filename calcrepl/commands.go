package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goforj/godump"

	"github.com/fjl/gio-calc/internal/keycalc"
	"github.com/fjl/gio-calc/internal/memstore"
)

const helpText = `Lines are statements, e.g. "2 * (3 + 4) =". Commands:
  :keys CODES   press key codes (digits, + - * / % ( ) s r =, . B `+"`"+` A M)
  :status       memory status line
  :stacks       operator and value stacks
  :dump         dump calculator state
  :push         push the current value to the memory stack
  :pop          pop the memory stack into the current value
  :sum          sum of the memory stack
  :avg          average of the memory stack
  :count        depth of the memory stack
  :mem [i]      show memory, or slot i
  :clear        clear the current calculation
  :reset        clear everything, including memory
  :help         this text
  :quit         exit
`

// errQuit is returned by exec for :quit.
var errQuit = errors.New("quit")

// session runs statements and commands against a calculator.
type session struct {
	calc  *keycalc.Synced
	store memstore.Store
	saved memstore.Snapshot
	out   io.Writer
}

func newSession(calc *keycalc.Synced, store memstore.Store, out io.Writer) *session {
	s := &session{calc: calc, store: store, out: out}
	calc.Do(func(c *keycalc.Calculator) { s.saved = c.Snapshot() })
	return s
}

// exec runs one input line.
func (s *session) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	defer s.save()
	if !strings.HasPrefix(line, ":") {
		return s.statement(line)
	}

	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "keys", "k":
		return s.keys(arg)
	case "status":
		s.calc.Do(func(c *keycalc.Calculator) { fmt.Fprintln(s.out, c.Status()) })
	case "stacks":
		s.calc.Do(func(c *keycalc.Calculator) {
			fmt.Fprintf(s.out, "ops %s  values %s\n", c.OperatorStack(), c.ValueStack())
		})
	case "dump":
		s.calc.Do(func(c *keycalc.Calculator) { godump.Dump(newDumpView(c)) })
	case "push":
		s.calc.Do(func(c *keycalc.Calculator) { c.PushCurrent() })
		s.show()
	case "pop":
		s.setValue(func(c *keycalc.Calculator) float64 { return c.PopMemory() })
	case "sum":
		s.setValue(func(c *keycalc.Calculator) float64 { return c.StackSum() })
	case "avg":
		s.setValue(func(c *keycalc.Calculator) float64 { return c.StackAverage() })
	case "count":
		s.calc.Do(func(c *keycalc.Calculator) { fmt.Fprintln(s.out, c.MemoryDepth()) })
	case "mem", "m":
		return s.mem(arg)
	case "clear":
		s.calc.Do(func(c *keycalc.Calculator) {
			c.CancelInput()
			c.Key(keycalc.KeyClear)
		})
		s.show()
	case "reset":
		s.calc.Do(func(c *keycalc.Calculator) {
			c.CancelInput()
			c.Key(keycalc.KeyClear)
			c.Key(keycalc.KeyClear)
		})
		s.show()
	case "help", "h", "?":
		io.WriteString(s.out, helpText)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command :%s (try :help)", name)
	}
	return nil
}

// statement parses a statement. A statement entered after an error starts
// from a cleared calculator.
func (s *session) statement(stmt string) error {
	var err error
	s.calc.Do(func(c *keycalc.Calculator) {
		if c.State() == keycalc.Error {
			c.Key(keycalc.KeyClear)
		}
		err = c.Parse(stmt)
	})
	s.show()
	return err
}

// keys presses every key code in codes. Spaces are ignored. Rejected keys
// are reported and skipped.
func (s *session) keys(codes string) error {
	var err error
	s.calc.Do(func(c *keycalc.Calculator) {
		for i := 0; i < len(codes) && err == nil; i++ {
			if codes[i] == ' ' {
				continue
			}
			kerr := c.Key(codes[i])
			if errors.Is(kerr, keycalc.ErrRejected) {
				fmt.Fprintf(s.out, "rejected %q in state %v\n", codes[i], c.State())
				continue
			}
			err = kerr
		}
	})
	s.show()
	return err
}

func (s *session) mem(arg string) error {
	if arg == "" {
		s.calc.Do(func(c *keycalc.Calculator) { fmt.Fprintln(s.out, c.Format(c.Memory())) })
		return nil
	}
	i, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("bad slot %q", arg)
	}
	s.calc.Do(func(c *keycalc.Calculator) {
		if i < 0 || i >= c.SlotCount() {
			err = fmt.Errorf("slot %d out of range [0, %d)", i, c.SlotCount())
			return
		}
		fmt.Fprintf(s.out, "M[%d] = %s\n", i, c.Format(c.Slot(i)))
	})
	return err
}

func (s *session) setValue(fn func(*keycalc.Calculator) float64) {
	s.calc.Do(func(c *keycalc.Calculator) {
		if c.State() == keycalc.Error {
			c.Key(keycalc.KeyClear)
		}
		c.SetValue(fn(c))
	})
	s.show()
}

// show prints the display, or the error label.
func (s *session) show() {
	s.calc.Do(func(c *keycalc.Calculator) {
		switch {
		case c.Failed():
			fmt.Fprintln(s.out, c.Err().Label())
		case c.State() == keycalc.EnteringMemory:
			fmt.Fprintln(s.out, c.MemoryID())
		default:
			fmt.Fprintln(s.out, c.Display())
		}
	})
}

// save writes memory to the store if it changed.
func (s *session) save() {
	if s.store == nil {
		return
	}
	var snap memstore.Snapshot
	s.calc.Do(func(c *keycalc.Calculator) { snap = c.Snapshot() })
	if snap.Equal(s.saved) {
		return
	}
	if err := s.store.Save(snap); err != nil {
		fmt.Fprintln(s.out, "can't save memory:", err)
		return
	}
	s.saved = snap
}

// dumpView is the calculator state shown by :dump.
type dumpView struct {
	State     string
	Display   string
	Error     string
	Operators string
	Values    []float64
	Memory    float64
	Slots     map[int]float64
	Stack     []float64
}

func newDumpView(c *keycalc.Calculator) dumpView {
	v := dumpView{
		State:     c.State().String(),
		Display:   c.Display(),
		Error:     c.Err().Error(),
		Operators: string(c.Operators()),
		Values:    c.Values(),
		Memory:    c.Memory(),
		Slots:     make(map[int]float64),
		Stack:     c.StackValues(),
	}
	for _, i := range c.UsedSlots() {
		v.Slots[i] = c.Slot(i)
	}
	return v
}
