package cli

import (
	"fmt"
	"os"

	"github.com/dshills/keys/internal/input/keymap"
)

// loadRegistry fills a fresh registry from path. With document set the
// file is a serialized registry, otherwise a spec file whose actions are
// ignored.
func (rt *runtime) loadRegistry(path string, document bool) (*keymap.Registry, error) {
	reg := rt.newRegistry()

	if document {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading document: %w", err)
		}
		if err := reg.Deserialize(string(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return reg, nil
	}

	f, err := keymap.ReadSpecFile(path)
	if err != nil {
		return nil, err
	}
	if err := loadSpecs(reg, f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// loadSpecs loads f into reg without handlers. Event types and
// conditions are still checked.
func loadSpecs(reg *keymap.Registry, f *keymap.SpecFile) error {
	stripped := &keymap.SpecFile{Bindings: make([]keymap.SpecRecord, len(f.Bindings))}
	for i, rec := range f.Bindings {
		rec.Action = ""
		stripped.Bindings[i] = rec
	}
	specs, err := stripped.Specs(nil)
	if err != nil {
		return err
	}
	return reg.Load(specs...)
}

func writeOutput(path string, data []byte, stdout func([]byte) error) error {
	if path == "" || path == "-" {
		return stdout(data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
