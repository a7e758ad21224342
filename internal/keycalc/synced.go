package keycalc

import "sync"

// Synced serializes access to a Calculator shared between goroutines.
type Synced struct {
	mu   sync.Mutex
	calc *Calculator
}

// NewSynced wraps c. c must not be used directly afterwards.
func NewSynced(c *Calculator) *Synced {
	return &Synced{calc: c}
}

// Do runs fn while holding the lock.
func (s *Synced) Do(fn func(c *Calculator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.calc)
}

func (s *Synced) Key(code byte) (err error) {
	s.Do(func(c *Calculator) { err = c.Key(code) })
	return err
}

func (s *Synced) Parse(statement string) (err error) {
	s.Do(func(c *Calculator) { err = c.Parse(statement) })
	return err
}

func (s *Synced) Display() (text string) {
	s.Do(func(c *Calculator) { text = c.Display() })
	return text
}

func (s *Synced) Status() (text string) {
	s.Do(func(c *Calculator) { text = c.Status() })
	return text
}

func (s *Synced) State() (st State) {
	s.Do(func(c *Calculator) { st = c.State() })
	return st
}
