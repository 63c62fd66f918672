package key

import (
	"fmt"
	"strings"
)

// ParseCombo parses the text form produced by Combo.String.
//
// Tokens are separated by "+" and empty tokens are ignored. The last token
// names the primary key; every earlier token must name a modifier. Names
// are matched case-insensitively, and key names that themselves contain
// "+" or spaces ("= +", "Page Up") are recognized as a whole.
//
// Supported forms:
//   - Bare key: "A", "Enter", "F5"
//   - With modifiers: "CTRL+S", "ctrl+shift+p", "ALT+F4"
//   - Modifiers only: "ALT+SHIFT", "META_RIGHT"
func (c *Catalog) ParseCombo(s string) (Combo, error) {
	rest := strings.TrimSpace(s)
	if rest == "" {
		return Combo{}, ErrEmptyCombo
	}

	var mods []Key
	for {
		if rest == "" {
			if len(mods) == 0 {
				return Combo{}, ErrEmptyCombo
			}
			// "CTRL+" names only modifiers; the last one is the primary key.
			primary := mods[len(mods)-1]
			return NewComboSet(primary, mods[:len(mods)-1])
		}

		if k, ok := c.ByName(rest); ok {
			return NewComboSet(k, mods)
		}

		i := strings.Index(rest, "+")
		if i < 0 {
			return Combo{}, fmt.Errorf("%w: %q", ErrUnknownKey, rest)
		}

		tok := strings.TrimSpace(rest[:i])
		rest = strings.TrimSpace(rest[i+1:])
		if tok == "" {
			continue
		}

		k, ok := c.ByName(tok)
		if !ok {
			return Combo{}, fmt.Errorf("%w: %q", ErrUnknownKey, tok)
		}
		if !k.IsMeta() {
			return Combo{}, fmt.Errorf("%w: %q in %q", ErrMultipleNonMeta, tok, s)
		}
		mods = append(mods, k)
	}
}

// MustParseCombo is like ParseCombo but panics on error.
func (c *Catalog) MustParseCombo(s string) Combo {
	combo, err := c.ParseCombo(s)
	if err != nil {
		panic(fmt.Sprintf("key: MustParseCombo(%q): %v", s, err))
	}
	return combo
}
