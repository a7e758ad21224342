package memstore

import (
	"encoding/json"
	"fmt"
)

// ScalarChanged sets the scalar memory.
type ScalarChanged struct {
	Value float64
}

// SlotChanged sets one indexed memory slot.
type SlotChanged struct {
	Index int
	Value float64
}

// SlotsResized changes the number of indexed slots.
type SlotsResized struct {
	Count int
}

// StackChanged replaces the memory stack.
type StackChanged struct {
	Values []float64
}

// Wiped zeroes all memory and empties the stack. The slot count is kept.
type Wiped struct{}

// Event is a journal entry.
type Event interface {
	evType() string
	apply(s *Snapshot)
}

func (*ScalarChanged) evType() string { return "scalar" }
func (*SlotChanged) evType() string   { return "slot" }
func (*SlotsResized) evType() string  { return "resize" }
func (*StackChanged) evType() string  { return "stack" }
func (*Wiped) evType() string         { return "wipe" }

func (ev *ScalarChanged) apply(s *Snapshot) { s.Memory = ev.Value }

func (ev *SlotChanged) apply(s *Snapshot) {
	if ev.Index >= 0 && ev.Index < len(s.Slots) {
		s.Slots[ev.Index] = ev.Value
	}
}

func (ev *SlotsResized) apply(s *Snapshot) {
	if ev.Count < 0 {
		return
	}
	slots := make([]float64, ev.Count)
	copy(slots, s.Slots)
	s.Slots = slots
}

func (ev *StackChanged) apply(s *Snapshot) {
	s.Stack = append([]float64(nil), ev.Values...)
}

func (*Wiped) apply(s *Snapshot) {
	s.Memory = 0
	for i := range s.Slots {
		s.Slots[i] = 0
	}
	s.Stack = nil
}

// diff returns the events that turn old into cur.
func diff(old, cur Snapshot) []Event {
	var events []Event
	if len(old.Slots) != len(cur.Slots) {
		events = append(events, &SlotsResized{Count: len(cur.Slots)})
		old.Slots = resized(old.Slots, len(cur.Slots))
	}
	if isZero(cur) && !isZero(old) {
		return append(events, &Wiped{})
	}
	if old.Memory != cur.Memory {
		events = append(events, &ScalarChanged{Value: cur.Memory})
	}
	for i, v := range cur.Slots {
		if old.Slots[i] != v {
			events = append(events, &SlotChanged{Index: i, Value: v})
		}
	}
	if !equalFloats(old.Stack, cur.Stack) {
		events = append(events, &StackChanged{Values: append([]float64(nil), cur.Stack...)})
	}
	return events
}

func resized(slots []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, slots)
	return out
}

func isZero(s Snapshot) bool {
	if s.Memory != 0 || len(s.Stack) != 0 {
		return false
	}
	for _, v := range s.Slots {
		if v != 0 {
			return false
		}
	}
	return true
}

type jsonEvent struct {
	Type  string `json:"type"`
	Event Event  `json:"event"`
}

func writeEvent(enc *json.Encoder, ev Event) error {
	jsev := &jsonEvent{Type: ev.evType(), Event: ev}
	return enc.Encode(jsev)
}

func readEvent(dec *json.Decoder) (Event, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("unexpected JSON token %v, expected '{'", tok)
	}

	var (
		evtype = ""
		event  Event
	)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		switch key {
		case "type":
			evtype, err = readEventType(dec)
			if err != nil {
				return nil, err
			}
		case "event":
			if evtype == "" {
				return nil, fmt.Errorf("key \"type\" must precede \"event\"")
			}
			event, err = makeEvent(evtype)
			if err != nil {
				return nil, err
			}
			if err := dec.Decode(event); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown key %q", keyTok)
		}
	}

	// read '}'
	_, err = dec.Token()
	return event, err
}

func readEventType(dec *json.Decoder) (string, error) {
	typeTok, err := dec.Token()
	if err != nil {
		return "", err
	}
	typ, ok := typeTok.(string)
	if !ok {
		return "", fmt.Errorf("expected string for \"type\", got %v", typeTok)
	}
	return typ, nil
}

func makeEvent(evtype string) (Event, error) {
	switch evtype {
	case (&ScalarChanged{}).evType():
		return new(ScalarChanged), nil
	case (&SlotChanged{}).evType():
		return new(SlotChanged), nil
	case (&SlotsResized{}).evType():
		return new(SlotsResized), nil
	case (&StackChanged{}).evType():
		return new(StackChanged), nil
	case (&Wiped{}).evType():
		return new(Wiped), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", evtype)
	}
}
