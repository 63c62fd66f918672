package key

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EventType is the phase of a key event.
type EventType string

const (
	KeyDown  EventType = "keydown"
	KeyUp    EventType = "keyup"
	KeyPress EventType = "keypress"
)

// ErrUnknownEventType is returned for event types other than keydown, keyup and keypress.
var ErrUnknownEventType = errors.New("unknown event type")

// EventTypes lists every supported event type.
var EventTypes = []EventType{KeyDown, KeyUp, KeyPress}

// Valid returns true for keydown, keyup and keypress.
func (t EventType) Valid() bool {
	switch t {
	case KeyDown, KeyUp, KeyPress:
		return true
	default:
		return false
	}
}

// String returns the event type name.
func (t EventType) String() string {
	return string(t)
}

// ParseEventType parses an event type name. An empty name is keydown.
func ParseEventType(s string) (EventType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KeyDown, nil
	}
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
	return t, nil
}

// Event is a raw key event observed by an input source.
type Event struct {
	// Type is the event phase.
	Type EventType

	// Code is the key code of the key involved.
	Code int

	// Modifier state at the time of the event.
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool

	// Target names the focused element kind, e.g. "input" or "textarea".
	// Empty means no focused element.
	Target string

	// Time is when the event occurred.
	Time time.Time

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, code int, mods Modifier) *Event {
	return &Event{
		Type:  t,
		Code:  code,
		Ctrl:  mods.HasCtrl(),
		Alt:   mods.HasAlt(),
		Shift: mods.HasShift(),
		Meta:  mods.HasMeta(),
		Time:  time.Now(),
	}
}

// Modifiers returns the held modifiers as a bitmask.
func (e *Event) Modifiers() Modifier {
	var m Modifier
	if e.Ctrl {
		m = m.With(ModCtrl)
	}
	if e.Alt {
		m = m.With(ModAlt)
	}
	if e.Shift {
		m = m.With(ModShift)
	}
	if e.Meta {
		m = m.With(ModMeta)
	}
	return m
}

// PreventDefault marks the event's default action as suppressed.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// StopPropagation marks the event as consumed.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// String returns a short description for logging.
func (e *Event) String() string {
	if e == nil {
		return "<nil>"
	}
	mods := e.Modifiers().String()
	if mods == "" {
		return fmt.Sprintf("%s %d", e.Type, e.Code)
	}
	return fmt.Sprintf("%s %s+%d", e.Type, mods, e.Code)
}

// ComboFromEvent builds the combo an event represents.
//
// Returns false for a nil event, a zero code or a code the catalog does
// not know. Most typing produces no combo anyone is bound to, so a miss
// is not an error.
func (c *Catalog) ComboFromEvent(e *Event) (Combo, bool) {
	if e == nil || e.Code == 0 {
		return Combo{}, false
	}
	k, ok := c.ByCode(e.Code)
	if !ok {
		return Combo{}, false
	}
	return comboFromBits(k, k.Modifier()|e.Modifiers()), true
}
