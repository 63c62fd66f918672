package keymap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keys/internal/input/key"
)

// Spec defines a binding and, optionally, its handler in one record.
type Spec struct {
	Name        string
	Description string

	// Combos are in text form, e.g. "CTRL+S".
	Combos []string

	// EventType defaults to keydown.
	EventType key.EventType

	// Handler is optional; a spec without one only defines the binding.
	Handler Handler
	Global  bool
	When    string

	// Disabled adds the binding in the disabled state.
	Disabled bool
}

// Load adds a batch of bindings and registers their handlers.
//
// Every spec is checked before the registry changes, so a bad spec
// leaves the registry untouched.
func (r *Registry) Load(specs ...Spec) error {
	type prepared struct {
		spec   Spec
		combos []key.Combo
		event  key.EventType
	}

	batch := make([]prepared, 0, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return fmt.Errorf("spec %d: %w", i, ErrEmptyName)
		}
		if len(s.Combos) == 0 {
			return fmt.Errorf("spec %q: %w", s.Name, ErrNoCombos)
		}
		p := prepared{spec: s, event: s.EventType}
		for _, text := range s.Combos {
			c, err := r.catalog.ParseCombo(text)
			if err != nil {
				return fmt.Errorf("spec %q: %w", s.Name, err)
			}
			p.combos = append(p.combos, c)
		}
		if p.event == "" {
			p.event = key.KeyDown
		}
		if !p.event.Valid() {
			return fmt.Errorf("spec %q: %w: %q", s.Name, key.ErrUnknownEventType, p.event)
		}
		if s.When != "" {
			if err := r.conditions.Compile(s.When); err != nil {
				return fmt.Errorf("spec %q: %w", s.Name, err)
			}
		}
		batch = append(batch, p)
	}

	for _, p := range batch {
		if err := r.AddWithDescription(p.spec.Name, p.spec.Description, p.combos...); err != nil {
			return err
		}
		if p.spec.Disabled {
			r.DisableBindings(p.spec.Name)
		}
		if p.spec.Handler == nil {
			continue
		}
		if _, err := r.register(p.spec.Name, p.event, p.spec.Handler, p.spec.Global, p.spec.When); err != nil {
			return err
		}
	}
	return nil
}

// SpecFile is the on-disk form of a batch of specs.
// Handlers are named by action and resolved from an action table.
type SpecFile struct {
	Bindings []SpecRecord `json:"bindings" yaml:"bindings" toml:"bindings"`
}

// SpecRecord is one binding in a SpecFile.
type SpecRecord struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Combos      []string `json:"combos" yaml:"combos" toml:"combos"`
	Action      string   `json:"action,omitempty" yaml:"action,omitempty" toml:"action,omitempty"`
	Event       string   `json:"event,omitempty" yaml:"event,omitempty" toml:"event,omitempty"`
	Global      bool     `json:"global,omitempty" yaml:"global,omitempty" toml:"global,omitempty"`
	When        string   `json:"when,omitempty" yaml:"when,omitempty" toml:"when,omitempty"`
	Disabled    bool     `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
}

// Format is a spec file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// ParseSpecFile decodes spec file data in the given format.
func ParseSpecFile(data []byte, format Format) (*SpecFile, error) {
	var f SpecFile
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &f)
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s spec file: %w", format, err)
	}
	return &f, nil
}

// SpecFileFromBindings converts bindings to spec file records.
// Records carry no actions.
func SpecFileFromBindings(bindings []Binding) *SpecFile {
	f := &SpecFile{Bindings: make([]SpecRecord, 0, len(bindings))}
	for _, b := range bindings {
		f.Bindings = append(f.Bindings, SpecRecord{
			Name:        b.Name,
			Description: b.Description,
			Combos:      b.ComboStrings(),
			Disabled:    !b.Enabled,
		})
	}
	return f
}

// Encode writes f in the given format.
func (f *SpecFile) Encode(format Format) ([]byte, error) {
	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(f, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(f)
	case FormatTOML:
		data, err = toml.Marshal(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s spec file: %w", format, err)
	}
	return data, nil
}

// ReadSpecFile reads and decodes a spec file, choosing the format by extension.
func ReadSpecFile(path string) (*SpecFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	return ParseSpecFile(data, format)
}

// Specs resolves the records into specs using an action table.
// Records without an action define bindings only.
func (f *SpecFile) Specs(actions map[string]Handler) ([]Spec, error) {
	specs := make([]Spec, 0, len(f.Bindings))
	for _, rec := range f.Bindings {
		t, err := key.ParseEventType(rec.Event)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", rec.Name, err)
		}
		s := Spec{
			Name:        rec.Name,
			Description: rec.Description,
			Combos:      rec.Combos,
			EventType:   t,
			Global:      rec.Global,
			When:        rec.When,
			Disabled:    rec.Disabled,
		}
		if rec.Action != "" {
			h, ok := actions[rec.Action]
			if !ok {
				return nil, fmt.Errorf("binding %q: %w: %q", rec.Name, ErrUnknownAction, rec.Action)
			}
			s.Handler = h
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// ParseBindings parses the records into bindings, ignoring actions and the
// other handler settings.
func (f *SpecFile) ParseBindings(cat *key.Catalog) ([]Binding, error) {
	out := make([]Binding, 0, len(f.Bindings))
	for _, rec := range f.Bindings {
		if rec.Name == "" {
			return nil, ErrEmptyName
		}
		b := Binding{
			Name:        rec.Name,
			Description: rec.Description,
			Enabled:     !rec.Disabled,
		}
		for _, text := range rec.Combos {
			c, err := cat.ParseCombo(text)
			if err != nil {
				return nil, fmt.Errorf("binding %q: %w", rec.Name, err)
			}
			b.Combos = append(b.Combos, c)
		}
		out = append(out, b)
	}
	return out, nil
}

// ReloadSpecFile replaces the bindings of r with those in a spec file.
// Handler registrations are kept, so handlers follow their binding names.
// Bindings named in keep survive the reload unless the file defines them.
func ReloadSpecFile(r *Registry, path string, keep ...string) error {
	f, err := ReadSpecFile(path)
	if err != nil {
		return err
	}
	bindings, err := f.ParseBindings(r.Catalog())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, name := range keep {
		if slices.ContainsFunc(bindings, func(b Binding) bool { return b.Name == name }) {
			continue
		}
		if b, ok := r.Get(name); ok {
			bindings = append(bindings, b)
		}
	}
	if err := r.Replace(bindings...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadSpecFile reads a spec file and loads it into r.
func LoadSpecFile(r *Registry, path string, actions map[string]Handler) error {
	f, err := ReadSpecFile(path)
	if err != nil {
		return err
	}
	specs, err := f.Specs(actions)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := r.Load(specs...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
