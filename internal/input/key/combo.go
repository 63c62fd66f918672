package key

import (
	"errors"
	"fmt"
	"strings"
)

// Combo errors.
var (
	// ErrEmptyCombo is returned when a combo has no primary key.
	ErrEmptyCombo = errors.New("combo requires a key")

	// ErrMultipleNonMeta is returned when a combo holds more than one ordinary key.
	ErrMultipleNonMeta = errors.New("combo may contain only one non-modifier key")

	// ErrUnknownKey is returned when a key name or code is not in the catalog.
	ErrUnknownKey = errors.New("unknown key")
)

// Combo is a primary key plus the modifiers that must be held with it.
//
// A combo whose primary key is itself a modifier ("ALT+SHIFT") represents
// modifiers pressed with no other key. Combos are immutable values.
type Combo struct {
	key   Key
	ctrl  bool
	alt   bool
	shift bool
	meta  bool
}

// NewCombo creates a combo from a primary key and modifier keys.
//
// Every key in mods must be a modifier. The primary key's own modifier
// bit is folded into the flags, so NewCombo(Shift, Alt) has both shift
// and alt set. A bare key with no modifiers is a valid combo.
func NewCombo(primary Key, mods ...Key) (Combo, error) {
	return NewComboSet(primary, mods)
}

// NewComboSet is NewCombo with an explicit modifier slice.
func NewComboSet(primary Key, mods []Key) (Combo, error) {
	if primary.IsZero() {
		return Combo{}, ErrEmptyCombo
	}

	bits := primary.Modifier()
	for _, m := range mods {
		if m.Equal(primary) {
			continue
		}
		if !m.IsMeta() {
			return Combo{}, fmt.Errorf("%w: %s and %s", ErrMultipleNonMeta, primary.Name, m.Name)
		}
		bits = bits.With(m.Modifier())
	}

	return comboFromBits(primary, bits), nil
}

// MustCombo is like NewCombo but panics on error.
// Intended for static tables and tests.
func MustCombo(primary Key, mods ...Key) Combo {
	c, err := NewCombo(primary, mods...)
	if err != nil {
		panic(fmt.Sprintf("key: MustCombo(%s): %v", primary.Name, err))
	}
	return c
}

func comboFromBits(primary Key, bits Modifier) Combo {
	return Combo{
		key:   primary,
		ctrl:  bits.HasCtrl(),
		alt:   bits.HasAlt(),
		shift: bits.HasShift(),
		meta:  bits.HasMeta(),
	}
}

// Key returns the primary key.
func (c Combo) Key() Key { return c.key }

// Ctrl reports whether Control is part of the combo.
func (c Combo) Ctrl() bool { return c.ctrl }

// Alt reports whether Alt is part of the combo.
func (c Combo) Alt() bool { return c.alt }

// Shift reports whether Shift is part of the combo.
func (c Combo) Shift() bool { return c.shift }

// Meta reports whether Meta is part of the combo.
func (c Combo) Meta() bool { return c.meta }

// IsZero returns true for the zero Combo.
func (c Combo) IsZero() bool {
	return c.key.IsZero()
}

// Modifiers returns the effective modifier set, including the primary
// key's own bit when it is a modifier.
func (c Combo) Modifiers() Modifier {
	var m Modifier
	if c.ctrl {
		m = m.With(ModCtrl)
	}
	if c.alt {
		m = m.With(ModAlt)
	}
	if c.shift {
		m = m.With(ModShift)
	}
	if c.meta {
		m = m.With(ModMeta)
	}
	return m
}

// MetaKeys returns the modifier keys implied by the combo.
func (c Combo) MetaKeys() []Key {
	return c.Modifiers().Keys()
}

// Equal is strict equality: same primary key and same flags.
func (c Combo) Equal(other Combo) bool {
	return c.key.Equal(other.key) &&
		c.ctrl == other.ctrl &&
		c.alt == other.alt &&
		c.shift == other.shift &&
		c.meta == other.meta
}

// Matches compares intent. When both primary keys are modifiers only the
// effective modifier sets are compared, so it does not matter which
// modifier was recorded as primary. Otherwise Matches is Equal.
func (c Combo) Matches(other Combo) bool {
	if c.key.IsMeta() && other.key.IsMeta() {
		return c.Modifiers() == other.Modifiers()
	}
	return c.Equal(other)
}

// Clone returns a copy of the combo.
func (c Combo) Clone() Combo {
	return c
}

// With returns a copy of the combo with additional modifiers held.
func (c Combo) With(mods ...Key) (Combo, error) {
	bits := c.Modifiers()
	for _, m := range mods {
		if !m.IsMeta() {
			return Combo{}, fmt.Errorf("%w: %s and %s", ErrMultipleNonMeta, c.key.Name, m.Name)
		}
		bits = bits.With(m.Modifier())
	}
	return comboFromBits(c.key, bits), nil
}

// String renders the combo as CTRL+ALT+SHIFT+META+KEY.
//
// Held modifiers appear in canonical order followed by the primary key.
// A modifier primary key is written once, last, so "SHIFT+ALT" has Alt
// as its primary key and parses back to the same combo. Such combos are
// therefore not in canonical order: Ctrl held as the primary with Shift
// renders "SHIFT+CTRL", not "CTRL+SHIFT", which ParseCombo would read
// with Shift as the primary.
func (c Combo) String() string {
	if c.IsZero() {
		return ""
	}

	own := c.key.Modifier()
	var sb strings.Builder
	for _, k := range metaKeys {
		mod := k.Modifier()
		if mod == own || !c.Modifiers().Has(mod) {
			continue
		}
		sb.WriteString(k.Name)
		sb.WriteByte('+')
	}
	sb.WriteString(c.key.Name)
	return sb.String()
}

// GoString implements fmt.GoStringer for debugging.
func (c Combo) GoString() string {
	return fmt.Sprintf("Combo{Key: %#v, Ctrl: %t, Alt: %t, Shift: %t, Meta: %t}",
		c.key, c.ctrl, c.alt, c.shift, c.meta)
}
