package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/macro"
)

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{"KEYS_BINDINGS": filepath.Join(dir, "none.yaml")}

	down := macro.Step{Type: key.KeyDown, Code: 40}
	quit := macro.Step{Type: key.KeyDown, Code: 81, Mods: key.ModCtrl}

	tests := []struct {
		name  string
		steps []macro.Step
		row   int
		want  string
	}{
		{"select second", []macro.Step{down, down}, 4, "> Acme"},
		{"stops at quit", []macro.Step{down, quit, down}, 3, "> Paul"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			if err := macro.Save(&macro.Macro{Steps: tt.steps}, path); err != nil {
				t.Fatal(err)
			}

			out, err := run(t, env, "replay", path)
			if err != nil {
				t.Fatalf("replay error = %v", err)
			}
			lines := strings.Split(out, "\n")
			if len(lines) <= tt.row || !strings.HasPrefix(lines[tt.row], tt.want) {
				t.Errorf("replay output:\n%s\nwant row %d to start with %q", out, tt.row, tt.want)
			}
		})
	}
}

func TestReplayCommandErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	if err := macro.Save(&macro.Macro{}, empty); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"replay", filepath.Join(dir, "missing.json")}},
		{"empty recording", []string{"replay", empty}},
		{"bad size", []string{"replay", empty, "--width", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, map[string]string{"KEYS_BINDINGS": filepath.Join(dir, "none.yaml")}, tt.args...); err == nil {
				t.Error("replay error = nil")
			}
		})
	}
}
