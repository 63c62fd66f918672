package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/keys/internal/input/key"
)

// persistedMacro is the file form of a macro.
type persistedMacro struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Steps   []Step    `json:"steps"`
}

const currentVersion = 1

// Save writes m to path as JSON. The file is replaced atomically.
func Save(m *Macro, path string) error {
	data, err := Export(m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads a macro saved by Save.
func Load(path string) (*Macro, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read macro file: %w", err)
	}
	m, err := Import(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Export encodes m as JSON.
func Export(m *Macro) ([]byte, error) {
	if m == nil {
		return nil, ErrEmptyMacro
	}
	data, err := json.MarshalIndent(persistedMacro{
		Version: currentVersion,
		SavedAt: time.Now(),
		Steps:   m.Steps,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal macro: %w", err)
	}
	return data, nil
}

// Import decodes JSON written by Export.
func Import(data []byte) (*Macro, error) {
	var p persistedMacro
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal macro: %w", err)
	}
	if p.Version > currentVersion {
		return nil, fmt.Errorf("%w: %d (max supported: %d)", ErrUnsupportedVersion, p.Version, currentVersion)
	}
	for i, s := range p.Steps {
		if !s.Type.Valid() {
			return nil, fmt.Errorf("step %d: %w: %q", i, key.ErrUnknownEventType, s.Type)
		}
	}
	return &Macro{Steps: p.Steps}, nil
}
