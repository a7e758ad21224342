package keycalc

import "strconv"

// memoryKey handles keys after M.
func (c *Calculator) memoryKey(code byte) error {
	switch {
	case code == KeyPoint:
		c.address = c.address[:0]
		c.setState(ReadyForAny)
		return nil

	case code == KeyBackspace:
		if len(c.address) == 0 {
			return reject("empty memory address")
		}
		c.address = c.address[:len(c.address)-1]
		return nil

	case isDigit(code):
		if len(c.address) >= c.addressWidth() {
			return reject("memory address too long")
		}
		addr := append(c.address, code)
		if n, _ := strconv.Atoi(string(addr)); n >= c.SlotCount() {
			return reject("memory address %s out of range", addr)
		}
		c.address = addr
		return nil

	case code == KeyMemory:
		v := c.Memory()
		if len(c.address) > 0 {
			v = c.Slot(c.slotIndex())
		}
		c.recall(v)
		c.address = c.address[:0]
		c.setState(ReadyForAny)
		return nil

	case c.IsMemoryOperator(code):
		var err error
		if len(c.address) == 0 {
			err = c.MemoryOperation(code)
		} else {
			err = c.SlotOperation(code, c.slotIndex())
		}
		if c.log != nil {
			c.log.Printf("memory operation %c on M[%s]: %v", code, c.address, err)
		}
		c.address = c.address[:0]
		c.setState(ReadyForAny)
		return err
	}

	c.address = c.address[:0]
	c.setState(ReadyForAny)
	return reject("key %q aborts memory entry", code)
}

// recall puts v on the display. When an operand is awaited, v becomes that
// operand. Otherwise it replaces the current value.
func (c *Calculator) recall(v float64) {
	if c.resume == ReadyForNumber {
		c.EnterValue(v)
		return
	}
	c.Engine.SetValue(v)
}

func (c *Calculator) slotIndex() int {
	n, err := strconv.Atoi(string(c.address))
	if err != nil {
		return -1
	}
	return n
}

// addressWidth is the number of digits of the highest memory slot index.
func (c *Calculator) addressWidth() int {
	if c.SlotCount() <= 1 {
		return 1
	}
	return len(strconv.Itoa(c.SlotCount() - 1))
}
