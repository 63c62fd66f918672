package key

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCombo is returned when an encoded combo is structurally invalid.
var ErrInvalidCombo = errors.New("invalid combo encoding")

// ComboObject is the structural form of a Combo used for serialization.
// Field order is key, ctrl, shift, alt, meta.
type ComboObject struct {
	Key   Key  `json:"key"`
	Ctrl  bool `json:"ctrl"`
	Shift bool `json:"shift"`
	Alt   bool `json:"alt"`
	Meta  bool `json:"meta"`
}

// comboWire accepts both a full combo record and a bare key record
// ({"name":"A","code":65}), which is promoted to a single-key combo.
type comboWire struct {
	ComboObject
	Name string `json:"name"`
	Code *int   `json:"code"`
}

// Object returns the structural form of the combo.
func (c Combo) Object() ComboObject {
	return ComboObject{
		Key:   c.key,
		Ctrl:  c.ctrl,
		Shift: c.shift,
		Alt:   c.alt,
		Meta:  c.meta,
	}
}

// Serialize encodes the combo as JSON.
func (c Combo) Serialize() (string, error) {
	if c.IsZero() {
		return "", ErrEmptyCombo
	}
	data, err := json.Marshal(c.Object())
	if err != nil {
		return "", fmt.Errorf("serialize combo: %w", err)
	}
	return string(data), nil
}

// MarshalJSON implements json.Marshaler.
func (c Combo) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Object())
}

// ComboFromObject rebuilds a combo from its structural form.
//
// The key's name and code are both required. They resolve to the catalog
// entry owning the code when the names match ignoring case, so {"a", 65}
// yields A. A key the catalog does not know is registered; a name or code
// belonging to another key is an error.
func (c *Catalog) ComboFromObject(obj ComboObject) (Combo, error) {
	if obj.Key.Name == "" {
		return Combo{}, fmt.Errorf("%w: key name is missing", ErrInvalidCombo)
	}
	if obj.Key.Code <= 0 {
		return Combo{}, fmt.Errorf("%w: key code is missing for %q", ErrInvalidCombo, obj.Key.Name)
	}

	k, err := c.Register(obj.Key.Name, obj.Key.Code)
	if err != nil {
		return Combo{}, fmt.Errorf("%w: %w", ErrInvalidCombo, err)
	}

	bits := k.Modifier()
	if obj.Ctrl {
		bits = bits.With(ModCtrl)
	}
	if obj.Alt {
		bits = bits.With(ModAlt)
	}
	if obj.Shift {
		bits = bits.With(ModShift)
	}
	if obj.Meta {
		bits = bits.With(ModMeta)
	}
	return comboFromBits(k, bits), nil
}

// DecodeCombo decodes one JSON combo record. A bare key record is
// accepted and promoted to a single-key combo.
func (c *Catalog) DecodeCombo(data []byte) (Combo, error) {
	var w comboWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Combo{}, fmt.Errorf("%w: %w", ErrInvalidCombo, err)
	}

	if w.Code != nil && w.Key.IsZero() {
		return c.ComboFromObject(ComboObject{Key: Key{Name: w.Name, Code: *w.Code}})
	}
	return c.ComboFromObject(w.ComboObject)
}

// DeserializeCombo decodes the output of Combo.Serialize.
// Empty input returns a nil combo and no error.
func (c *Catalog) DeserializeCombo(s string) (*Combo, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	combo, err := c.DecodeCombo([]byte(s))
	if err != nil {
		return nil, err
	}
	return &combo, nil
}
