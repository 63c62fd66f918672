package keymap

import (
	"strings"

	"github.com/dshills/keys/internal/input/key"
)

// Binding is a named set of combos, independent of any behavior.
type Binding struct {
	// Name identifies the binding. Adding a binding with an existing name
	// replaces its combos.
	Name string

	// Description is shown in help listings.
	Description string

	// Combos are the ways to trigger the binding.
	Combos []key.Combo

	// Enabled bindings take part in dispatch.
	Enabled bool
}

// Clone returns a copy that shares no slices with b.
func (b Binding) Clone() Binding {
	b.Combos = append([]key.Combo(nil), b.Combos...)
	return b
}

// Match reports whether any of the binding's combos matches c.
// When strict is set combos must be Equal, otherwise Matches is used.
func (b *Binding) Match(c key.Combo, strict bool) bool {
	for _, stored := range b.Combos {
		if strict {
			if stored.Equal(c) {
				return true
			}
			continue
		}
		if stored.Matches(c) {
			return true
		}
	}
	return false
}

// Equal reports whether two bindings have the same name, description,
// enabled flag and combos in the same order.
func (b Binding) Equal(other Binding) bool {
	if b.Name != other.Name || b.Description != other.Description || b.Enabled != other.Enabled {
		return false
	}
	if len(b.Combos) != len(other.Combos) {
		return false
	}
	for i := range b.Combos {
		if !b.Combos[i].Equal(other.Combos[i]) {
			return false
		}
	}
	return true
}

// ComboStrings returns the text form of each combo.
func (b Binding) ComboStrings() []string {
	out := make([]string, len(b.Combos))
	for i, c := range b.Combos {
		out[i] = c.String()
	}
	return out
}

// String returns "name: CTRL+S, META+S".
func (b Binding) String() string {
	return b.Name + ": " + strings.Join(b.ComboStrings(), ", ")
}
