package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keys/internal/input/key"
)

// editableTargets are the focus targets that take typed text.
var editableTargets = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
}

// IsEditableTarget reports whether target is a text-entry element.
// Non-global handlers do not fire while such an element has focus.
func IsEditableTarget(target string) bool {
	return editableTargets[strings.ToLower(strings.TrimSpace(target))]
}

// ErrEnvPanic is reported when an EnvFunc panics.
var ErrEnvPanic = errors.New("condition environment panicked")

// EnvFunc supplies application state for When conditions.
type EnvFunc func(ev *key.Event) map[string]any

// environment builds the variables a When condition can see.
// Application values from fn override the built-in ones. A panic in fn
// is returned as ErrEnvPanic.
func environment(ev *key.Event, fn EnvFunc) (env map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			env, err = nil, fmt.Errorf("%w: %v", ErrEnvPanic, r)
		}
	}()

	env = map[string]any{
		"event":    string(ev.Type),
		"target":   ev.Target,
		"editable": IsEditableTarget(ev.Target),
		"ctrl":     ev.Ctrl,
		"alt":      ev.Alt,
		"shift":    ev.Shift,
		"meta":     ev.Meta,
	}
	if fn != nil {
		for k, v := range fn(ev) {
			env[k] = v
		}
	}
	return env, nil
}
