package mail

import (
	"errors"
	"slices"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
)

// ErrNoPrimaryKey is returned when saving an edit without a primary key.
var ErrNoPrimaryKey = errors.New("binding edit has no primary key")

// Editor builds a replacement combo for one binding, the way the settings
// page's virtual keyboard does: pressing a modifier toggles it, pressing
// any other key makes it the primary key, and pressing the primary key
// again clears it.
type Editor struct {
	reg     *keymap.Registry
	name    string
	primary key.Key
	mods    []key.Key
}

// NewEditor starts editing the named binding from its first combo.
func NewEditor(reg *keymap.Registry, name string) (*Editor, error) {
	if _, ok := reg.Get(name); !ok {
		return nil, keymap.ErrBindingNotFound
	}
	e := &Editor{reg: reg, name: name}
	e.Reset()
	return e, nil
}

// Name returns the binding being edited.
func (e *Editor) Name() string {
	return e.name
}

// Reset restores the binding's current first combo.
func (e *Editor) Reset() {
	e.primary = key.Key{}
	e.mods = nil

	b, ok := e.reg.Get(e.name)
	if !ok || len(b.Combos) == 0 {
		return
	}
	c := b.Combos[0]
	e.primary = c.Key()
	for _, m := range c.MetaKeys() {
		if !m.Equal(e.primary) {
			e.mods = append(e.mods, m)
		}
	}
}

// Clear removes every selected key.
func (e *Editor) Clear() {
	e.primary = key.Key{}
	e.mods = nil
}

// Press toggles k.
func (e *Editor) Press(k key.Key) {
	if k.IsMeta() {
		if i := slices.IndexFunc(e.mods, k.Equal); i >= 0 {
			e.mods = slices.Delete(e.mods, i, i+1)
			return
		}
		e.mods = append(e.mods, k)
		return
	}
	if e.primary.Equal(k) {
		e.primary = key.Key{}
		return
	}
	e.primary = k
}

// PressCode toggles the key with the given code, as a keydown would.
// Unknown codes are ignored.
func (e *Editor) PressCode(code int) bool {
	k, ok := e.reg.Catalog().ByCode(code)
	if ok {
		e.Press(k)
	}
	return ok
}

// Combo returns the combo selected so far. Without a primary key the
// last pressed modifier acts as the primary.
func (e *Editor) Combo() (key.Combo, bool) {
	if !e.primary.IsZero() {
		c, err := key.NewComboSet(e.primary, e.mods)
		return c, err == nil
	}
	if len(e.mods) == 0 {
		return key.Combo{}, false
	}
	last := e.mods[len(e.mods)-1]
	c, err := key.NewComboSet(last, e.mods[:len(e.mods)-1])
	return c, err == nil
}

// Text renders the selection, e.g. "CTRL+SHIFT+K", or "" when empty.
func (e *Editor) Text() string {
	c, ok := e.Combo()
	if !ok {
		return ""
	}
	return c.String()
}

// Save replaces the binding's combos with the selection.
func (e *Editor) Save() error {
	c, ok := e.Combo()
	if !ok {
		return ErrNoPrimaryKey
	}
	return e.reg.Add(e.name, c)
}
