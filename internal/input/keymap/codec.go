package keymap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/dshills/keys/internal/input/key"
)

// documentSchema describes the serialized registry.
// A combo entry is either a full combo record or a bare key record.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["bindings"],
  "properties": {
    "bindings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "combos"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "enabled": {"type": "boolean"},
          "combos": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "oneOf": [
                {
                  "required": ["key"],
                  "properties": {
                    "key": {"$ref": "#/definitions/key"},
                    "ctrl": {"type": "boolean"},
                    "shift": {"type": "boolean"},
                    "alt": {"type": "boolean"},
                    "meta": {"type": "boolean"}
                  }
                },
                {"$ref": "#/definitions/key"}
              ]
            }
          }
        }
      }
    }
  },
  "definitions": {
    "key": {
      "type": "object",
      "required": ["name", "code"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "code": {"type": "integer", "minimum": 1}
      }
    }
  }
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentSchema)

// documentOut is the encoding produced by Serialize.
type documentOut struct {
	Bindings []bindingOut `json:"bindings"`
}

type bindingOut struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Combos      []key.ComboObject `json:"combos"`
	Enabled     bool              `json:"enabled"`
}

// documentIn is the decoding accepted by Deserialize.
type documentIn struct {
	Bindings []bindingIn `json:"bindings"`
}

type bindingIn struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Combos      []json.RawMessage `json:"combos"`
	Enabled     *bool             `json:"enabled"`
}

// Serialize encodes the bindings as JSON. Handlers are not included.
func (r *Registry) Serialize() (string, error) {
	return encodeBindings(r.Bindings())
}

func encodeBindings(bindings []Binding) (string, error) {
	doc := documentOut{Bindings: make([]bindingOut, 0, len(bindings))}
	for _, b := range bindings {
		out := bindingOut{
			Name:        b.Name,
			Description: b.Description,
			Combos:      make([]key.ComboObject, 0, len(b.Combos)),
			Enabled:     b.Enabled,
		}
		for _, c := range b.Combos {
			out.Combos = append(out.Combos, c.Object())
		}
		doc.Bindings = append(doc.Bindings, out)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize bindings: %w", err)
	}
	return string(data), nil
}

// Deserialize replaces every binding with those encoded in s.
//
// The document is validated in full before anything changes; on error
// the registry and its catalog are left as they were. Keys the catalog
// does not know are registered only once the whole document decodes.
// Handler registrations are kept, so a caller that re-adds the same
// names does not need to register again. Bindings missing an enabled
// flag are enabled.
func (r *Registry) Deserialize(s string) error {
	bindings, added, err := r.decodeDocument(s)
	if err != nil {
		return err
	}
	if err := r.catalog.RegisterAll(added...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceLocked(bindings)
	return nil
}

// DecodeDocument validates and decodes a serialized registry without
// changing the registry or its catalog.
func (r *Registry) DecodeDocument(s string) ([]Binding, error) {
	bindings, _, err := r.decodeDocument(s)
	return bindings, err
}

// decodeDocument decodes s against a scratch copy of the catalog and
// also returns the keys the document adds to it.
func (r *Registry) decodeDocument(s string) ([]Binding, []key.Key, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	if !gjson.Valid(s) {
		return nil, nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	if err := ValidateDocument(s); err != nil {
		return nil, nil, err
	}

	var doc documentIn
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	scratch := r.catalog.Clone()
	base := scratch.Len()

	seen := make(map[string]bool, len(doc.Bindings))
	bindings := make([]Binding, 0, len(doc.Bindings))
	for i, in := range doc.Bindings {
		if seen[in.Name] {
			return nil, nil, fmt.Errorf("%w: bindings[%d]: duplicate name %q", ErrInvalidDocument, i, in.Name)
		}
		seen[in.Name] = true

		b := Binding{
			Name:        in.Name,
			Description: in.Description,
			Combos:      make([]key.Combo, 0, len(in.Combos)),
			Enabled:     in.Enabled == nil || *in.Enabled,
		}
		for j, raw := range in.Combos {
			c, err := scratch.DecodeCombo(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: bindings[%d] %q combos[%d]: %w", ErrInvalidDocument, i, in.Name, j, err)
			}
			b.Combos = append(b.Combos, c)
		}
		bindings = append(bindings, b)
	}
	return bindings, scratch.Keys()[base:], nil
}

// ValidateDocument checks a serialized registry against the document schema.
func ValidateDocument(s string) error {
	result, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewStringLoader(s))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// RebindDocument returns doc with the combos of one binding replaced.
// The rest of the document, including fields this package does not know
// about, is preserved byte for byte.
func RebindDocument(doc, name string, combos ...key.Combo) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if len(combos) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoCombos, name)
	}
	if !gjson.Valid(doc) {
		return "", fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}

	index := -1
	gjson.Get(doc, "bindings").ForEach(func(k, v gjson.Result) bool {
		if v.Get("name").String() == name {
			index = int(k.Int())
			return false
		}
		return true
	})
	if index < 0 {
		return "", fmt.Errorf("%w: %q", ErrBindingNotFound, name)
	}

	objs := make([]key.ComboObject, 0, len(combos))
	for _, c := range combos {
		if c.IsZero() {
			return "", fmt.Errorf("binding %q: %w", name, key.ErrEmptyCombo)
		}
		objs = append(objs, c.Object())
	}
	raw, err := json.Marshal(objs)
	if err != nil {
		return "", fmt.Errorf("rebind %q: %w", name, err)
	}

	out, err := sjson.SetRaw(doc, fmt.Sprintf("bindings.%d.combos", index), string(raw))
	if err != nil {
		return "", fmt.Errorf("rebind %q: %w", name, err)
	}
	return out, nil
}

// DocumentBindingNames lists the binding names in a serialized registry.
func DocumentBindingNames(doc string) []string {
	var names []string
	for _, n := range gjson.Get(doc, "bindings.#.name").Array() {
		names = append(names, n.String())
	}
	return names
}
