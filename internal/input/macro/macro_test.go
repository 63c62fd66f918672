package macro

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/source"
)

func TestRecorder(t *testing.T) {
	src := source.NewMemory()
	rec := NewRecorder(src)

	src.Press(65, key.ModNone) // not recording yet

	if err := rec.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRecording", err)
	}

	src.Press(65, key.ModCtrl)
	ev := key.NewEvent(key.KeyPress, 66, key.ModNone)
	ev.Target = "input"
	src.Emit(ev)

	if rec.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (keyup is not recorded)", rec.Len())
	}

	m := rec.Stop()
	if rec.IsRecording() || rec.Stop() != nil {
		t.Error("recorder still recording after Stop()")
	}
	if src.Subscribers(key.KeyDown) != 0 || src.Subscribers(key.KeyPress) != 0 {
		t.Error("Stop() left subscriptions behind")
	}

	want := []Step{
		{Type: key.KeyDown, Code: 65, Mods: key.ModCtrl},
		{Type: key.KeyPress, Code: 66, Target: "input"},
	}
	if len(m.Steps) != len(want) {
		t.Fatalf("Steps = %+v", m.Steps)
	}
	for i, w := range want {
		got := m.Steps[i]
		if got.Type != w.Type || got.Code != w.Code || got.Mods != w.Mods || got.Target != w.Target {
			t.Errorf("Steps[%d] = %+v, want %+v", i, got, w)
		}
		if got.Offset < 0 {
			t.Errorf("Steps[%d].Offset = %v", i, got.Offset)
		}
	}
	if m.Steps[1].Offset < m.Steps[0].Offset {
		t.Error("offsets are not increasing")
	}
}

func TestRecorderEventTypes(t *testing.T) {
	src := source.NewMemory()
	rec := NewRecorder(src, key.KeyUp)
	_ = rec.Start()
	src.Press(65, key.ModNone)
	m := rec.Stop()
	if len(m.Steps) != 1 || m.Steps[0].Type != key.KeyUp {
		t.Errorf("Steps = %+v, want one keyup", m.Steps)
	}
}

func TestPlayer(t *testing.T) {
	m := &Macro{Steps: []Step{
		{Type: key.KeyDown, Code: 40},
		{Type: key.KeyDown, Code: 65, Mods: key.ModCtrl, Target: "input"},
	}}

	src := source.NewMemory()
	var got []*key.Event
	src.Subscribe(key.KeyDown, func(ev *key.Event) { got = append(got, ev) })

	if err := NewPlayer().Play(context.Background(), m, src, 2); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("emitted %d events, want 4", len(got))
	}
	if got[1].Code != 65 || !got[1].Ctrl || got[1].Target != "input" {
		t.Errorf("second event = %v target %q", got[1], got[1].Target)
	}
	if got[2].Code != 40 {
		t.Errorf("second pass did not restart: %v", got[2])
	}
}

func TestPlayerErrors(t *testing.T) {
	p := NewPlayer()
	src := source.NewMemory()

	if err := p.Play(context.Background(), &Macro{}, src, 1); !errors.Is(err, ErrEmptyMacro) {
		t.Errorf("Play(empty) error = %v, want ErrEmptyMacro", err)
	}

	m := &Macro{Steps: []Step{{Type: key.KeyDown, Code: 40}}}
	var nested error
	src.Subscribe(key.KeyDown, func(*key.Event) {
		if nested == nil {
			nested = p.Play(context.Background(), m, src, 1)
		}
	})
	if err := p.Play(context.Background(), m, src, 1); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !errors.Is(nested, ErrAlreadyPlaying) {
		t.Errorf("nested Play() error = %v, want ErrAlreadyPlaying", nested)
	}
	if p.IsPlaying() {
		t.Error("IsPlaying() after Play returned")
	}
}

func TestPlayerPacing(t *testing.T) {
	m := &Macro{Steps: []Step{
		{Type: key.KeyDown, Code: 40},
		{Type: key.KeyDown, Code: 40, Offset: time.Hour},
	}}
	src := source.NewMemory()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := NewPlayer(WithSpeed(1)).Play(ctx, m, src, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Play() error = %v, want DeadlineExceeded", err)
	}

	start := time.Now()
	fast := &Macro{Steps: []Step{
		{Type: key.KeyDown, Code: 40},
		{Type: key.KeyDown, Code: 40, Offset: 40 * time.Millisecond},
	}}
	if err := NewPlayer(WithSpeed(2)).Play(context.Background(), fast, src, 1); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("paced playback took %v, want at least 20ms", elapsed)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	m := &Macro{Steps: []Step{
		{Type: key.KeyDown, Code: 65, Mods: key.ModCtrl | key.ModShift, Target: "input", Offset: 1500 * time.Millisecond},
	}}

	if err := Save(m, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Steps) != 1 || got.Steps[0] != m.Steps[0] {
		t.Errorf("Load() = %+v, want %+v", got.Steps, m.Steps)
	}
	if got.Duration() != 1500*time.Millisecond {
		t.Errorf("Duration() = %v", got.Duration())
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"future version", `{"version": 9, "steps": []}`, ErrUnsupportedVersion},
		{"bad event type", `{"version": 1, "steps": [{"type": "keyhold", "code": 1}]}`, key.ErrUnknownEventType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Import([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Import() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Import([]byte("{")); err == nil {
		t.Error("Import(malformed) error = nil")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}
