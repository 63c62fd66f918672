// Package key provides the key and combo types for the binding engine.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: A named physical key with its numeric key code
//   - Catalog: The name <-> code table every Key comes from
//   - Modifier: The CTRL, ALT, SHIFT and META modifier bits
//   - Combo: A primary key plus the modifiers that must be held with it
//   - Event: A raw key press observed by an input source
//
// # Key Codes
//
// Codes follow the browser keyCode table: "A" is 65, "Enter" is 13,
// "SHIFT" is 16 and so on. The modifier keys are SHIFT (16), CTRL (17),
// ALT (18), META (91) and META_RIGHT (93).
//
// # Combo Strings
//
// Combos render and parse in a fixed modifier order:
//
//	"A"                      - a bare key
//	"CTRL+S"                 - Ctrl held with S
//	"CTRL+ALT+SHIFT+META+A"  - every modifier
//	"ALT+SHIFT"              - modifiers only, no other key
//
// # Matching
//
// Combo.Equal is strict: same primary key, same flags. Combo.Matches
// compares intent, so "SHIFT+ALT" recorded with Shift as the primary key
// matches "ALT+SHIFT" recorded with Alt as the primary key.
package key
