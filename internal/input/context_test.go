package input

import (
	"errors"
	"testing"

	"github.com/dshills/keys/internal/input/key"
)

func TestIsEditableTarget(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"input", true},
		{"INPUT", true},
		{" textarea ", true},
		{"select", true},
		{"", false},
		{"div", false},
		{"button", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := IsEditableTarget(tt.target); got != tt.want {
				t.Errorf("IsEditableTarget(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestEnvironment(t *testing.T) {
	ev := &key.Event{Type: key.KeyUp, Code: 65, Ctrl: true, Target: "input"}
	env, err := environment(ev, func(*key.Event) map[string]any {
		return map[string]any{"folder": "inbox", "target": "override"}
	})
	if err != nil {
		t.Fatalf("environment() error = %v", err)
	}

	if env["event"] != "keyup" || env["ctrl"] != true || env["editable"] != true {
		t.Errorf("environment() = %v", env)
	}
	if env["folder"] != "inbox" || env["target"] != "override" {
		t.Errorf("application values not merged: %v", env)
	}
}

func TestEnvironmentPanic(t *testing.T) {
	ev := key.NewEvent(key.KeyDown, 65, key.ModNone)
	env, err := environment(ev, func(*key.Event) map[string]any {
		panic("state not ready")
	})
	if !errors.Is(err, ErrEnvPanic) {
		t.Errorf("environment() error = %v, want ErrEnvPanic", err)
	}
	if env != nil {
		t.Errorf("environment() = %v, want nil", env)
	}
}
