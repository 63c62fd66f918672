package key

import "strings"

// Modifier represents the set of held modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasCtrl returns true if Control is held.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasAlt returns true if Alt is held.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasMeta returns true if Meta is held.
func (m Modifier) HasMeta() bool {
	return m.Has(ModMeta)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Keys returns the modifier keys in CTRL > ALT > SHIFT > META order.
func (m Modifier) Keys() []Key {
	keys := make([]Key, 0, 4)
	for _, k := range metaKeys {
		if m.Has(k.Modifier()) {
			keys = append(keys, k)
		}
	}
	return keys
}

// String returns the canonical form, e.g. "CTRL+ALT".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	parts := make([]string, 0, 4)
	for _, k := range m.Keys() {
		parts = append(parts, k.Name)
	}
	return strings.Join(parts, "+")
}

// modifierNameMap maps modifier tokens (uppercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"CTRL":       ModCtrl,
	"ALT":        ModAlt,
	"SHIFT":      ModShift,
	"META":       ModMeta,
	"META_RIGHT": ModMeta,
}

// ModifierFromName returns the Modifier for a combo token (case-insensitive).
// Returns ModNone if the token is not a modifier.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return m
	}
	return ModNone
}
