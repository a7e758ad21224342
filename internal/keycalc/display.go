package keycalc

import (
	"strconv"
	"strings"
)

// Display returns the number being typed, or the current value.
func (c *Calculator) Display() string {
	if len(c.entry) > 0 {
		return string(c.entry)
	}
	return c.Calculator.Display()
}

// MemoryID describes the memory register being addressed while in state
// EnteringMemory, e.g. "M[_5]  (3.14)". Underscores pad the address.
func (c *Calculator) MemoryID() string {
	v := c.Memory()
	if len(c.address) > 0 {
		v = c.Slot(c.slotIndex())
	}
	var sb strings.Builder
	sb.WriteString("M[")
	sb.WriteString(strings.Repeat("_", c.addressWidth()-len(c.address)))
	sb.Write(c.address)
	sb.WriteString("]  (")
	sb.WriteString(c.Format(v))
	sb.WriteString(")")
	return sb.String()
}

// Status summarizes open parens and memory use, for example
//
//	(( M[1,2,4,...]  S(5)  M=3.14159265
//
// It is empty when there is nothing to report.
func (c *Calculator) Status() string {
	var parts []string
	if used := c.UsedSlots(); len(used) > 0 {
		var sb strings.Builder
		sb.WriteString("M[")
		for i, idx := range used {
			if i > 0 {
				sb.WriteByte(',')
			}
			if i == c.statusSlots {
				sb.WriteString("...")
				break
			}
			sb.WriteString(strconv.Itoa(idx))
		}
		sb.WriteString("]")
		parts = append(parts, sb.String())
	}
	if n := c.MemoryDepth(); n > 0 {
		parts = append(parts, "S("+strconv.Itoa(n)+")")
	}
	if m := c.Memory(); m != 0 {
		parts = append(parts, "M="+c.Format(m))
	}
	s := strings.Join(parts, "  ")
	if n := c.OpenParens(); n > 0 {
		parens := strings.Repeat("(", n)
		if s == "" {
			return parens
		}
		s = parens + " " + s
	}
	return s
}

// OperatorStack renders the operator stack, bottom first: "[ + * ]".
func (c *Calculator) OperatorStack() string {
	var sb strings.Builder
	sb.WriteString("[ ")
	for _, op := range c.Operators() {
		sb.WriteByte(op)
		sb.WriteByte(' ')
	}
	sb.WriteString("]")
	return sb.String()
}

// ValueStack renders the operand stack, bottom first: "[ 1.5 2 ]".
func (c *Calculator) ValueStack() string {
	var sb strings.Builder
	sb.WriteString("[ ")
	for _, v := range c.Values() {
		sb.WriteString(c.Format(v))
		sb.WriteByte(' ')
	}
	sb.WriteString("]")
	return sb.String()
}
