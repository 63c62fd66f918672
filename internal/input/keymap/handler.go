package keymap

import (
	"github.com/dshills/keys/internal/input/key"
)

// Handler is invoked when a binding it is registered for fires.
type Handler interface {
	Handle(ev *key.Event) error
}

// HandlerFunc adapts a function that receives the event.
type HandlerFunc func(ev *key.Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ev *key.Event) error {
	return f(ev)
}

// Action adapts a function that takes no arguments.
type Action func()

// Handle implements Handler.
func (f Action) Handle(*key.Event) error {
	f()
	return nil
}

// Registration attaches a handler to a binding name.
type Registration struct {
	// ID uniquely identifies the registration.
	ID string

	// Binding is the binding name. The binding need not exist yet.
	Binding string

	// EventType selects the event phase the handler runs on.
	EventType key.EventType

	// Handler is the behavior.
	Handler Handler

	// Global registrations fire even while a text field has focus.
	Global bool

	// When is an optional condition expression.
	When string

	seq uint64
}

// Toggle alternates between two handlers on successive fires.
// It starts in the off state, so the first fire runs the on handler.
type Toggle struct {
	on    bool
	onFn  Handler
	offFn Handler
}

// NewToggle creates a toggle in the off state.
func NewToggle(on, off Handler) *Toggle {
	return &Toggle{onFn: on, offFn: off}
}

// Fire flips the state and runs the handler for the new state.
func (t *Toggle) Fire(ev *key.Event) error {
	t.on = !t.on
	if t.on {
		return t.onFn.Handle(ev)
	}
	return t.offFn.Handle(ev)
}

// Handle implements Handler.
func (t *Toggle) Handle(ev *key.Event) error {
	return t.Fire(ev)
}

// On reports whether the toggle is in the on state.
func (t *Toggle) On() bool {
	return t.on
}
