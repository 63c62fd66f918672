package key

import (
	"fmt"
)

// Key codes for the modifier keys.
const (
	CodeShift     = 16
	CodeCtrl      = 17
	CodeAlt       = 18
	CodeMeta      = 91
	CodeMetaRight = 93
)

// Key represents a keyboard key by name and key code.
// Keys are compared by value.
type Key struct {
	// Name is the catalog name, e.g. "A", "Enter", "CTRL".
	Name string `json:"name"`

	// Code is the numeric key code reported by input events.
	Code int `json:"code"`
}

// Modifier keys.
var (
	Shift     = Key{Name: "SHIFT", Code: CodeShift}
	Ctrl      = Key{Name: "CTRL", Code: CodeCtrl}
	Alt       = Key{Name: "ALT", Code: CodeAlt}
	Meta      = Key{Name: "META", Code: CodeMeta}
	MetaRight = Key{Name: "META_RIGHT", Code: CodeMetaRight}
)

// metaKeys lists the modifier keys in canonical CTRL > ALT > SHIFT > META order.
var metaKeys = []Key{Ctrl, Alt, Shift, Meta}

// IsZero returns true if k is the zero Key.
func (k Key) IsZero() bool {
	return k.Name == "" && k.Code == 0
}

// Equal returns true if both name and code match.
func (k Key) Equal(other Key) bool {
	return k.Name == other.Name && k.Code == other.Code
}

// IsMeta returns true if this key is one of the modifier keys.
func (k Key) IsMeta() bool {
	return IsMetaCode(k.Code)
}

// IsPressed returns true if code is this key's code.
func (k Key) IsPressed(code int) bool {
	return k.Code == code
}

// Modifier returns the modifier bit this key represents.
// Returns ModNone for ordinary keys.
func (k Key) Modifier() Modifier {
	switch k.Code {
	case CodeCtrl:
		return ModCtrl
	case CodeAlt:
		return ModAlt
	case CodeShift:
		return ModShift
	case CodeMeta, CodeMetaRight:
		return ModMeta
	default:
		return ModNone
	}
}

// String returns the key name.
func (k Key) String() string {
	return k.Name
}

// GoString implements fmt.GoStringer for debugging.
func (k Key) GoString() string {
	return fmt.Sprintf("Key{Name: %q, Code: %d}", k.Name, k.Code)
}

// IsMetaCode returns true if code is one of the modifier key codes.
func IsMetaCode(code int) bool {
	switch code {
	case CodeCtrl, CodeShift, CodeAlt, CodeMeta, CodeMetaRight:
		return true
	default:
		return false
	}
}
