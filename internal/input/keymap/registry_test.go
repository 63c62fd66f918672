package keymap

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dshills/keys/internal/input/key"
)

func newTestRegistry(opts ...Option) *Registry {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewRegistry(opts...)
}

func mustParse(t *testing.T, r *Registry, s string) key.Combo {
	t.Helper()
	c, err := r.Catalog().ParseCombo(s)
	if err != nil {
		t.Fatalf("ParseCombo(%q) error = %v", s, err)
	}
	return c
}

func TestRegistryAdd(t *testing.T) {
	r := newTestRegistry()
	ctrlS := mustParse(t, r, "CTRL+S")

	if err := r.AddWithDescription("save", "Save the draft", ctrlS); err != nil {
		t.Fatalf("AddWithDescription() error = %v", err)
	}

	b, ok := r.Get("save")
	if !ok {
		t.Fatal("Get(save) not found")
	}
	if b.Description != "Save the draft" || !b.Enabled || len(b.Combos) != 1 || !b.Combos[0].Equal(ctrlS) {
		t.Errorf("Get(save) = %+v", b)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryAddOverwrites(t *testing.T) {
	r := newTestRegistry()
	a := mustParse(t, r, "CTRL+A")
	b := mustParse(t, r, "CTRL+B")

	if err := r.AddWithDescription("x", "first", a); err != nil {
		t.Fatal(err)
	}
	if err := r.Add("x", b); err != nil {
		t.Fatal(err)
	}

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	got, _ := r.Get("x")
	if len(got.Combos) != 1 || !got.Combos[0].Equal(b) {
		t.Errorf("combos = %v, want [CTRL+B]", got.ComboStrings())
	}
	if got.Description != "first" {
		t.Errorf("Description = %q, want previous description kept", got.Description)
	}

	if err := r.AddWithDescription("x", "second", a, b); err != nil {
		t.Fatal(err)
	}
	got, _ = r.Get("x")
	if got.Description != "second" || len(got.Combos) != 2 {
		t.Errorf("after second overwrite = %+v", got)
	}
}

func TestRegistryAddErrors(t *testing.T) {
	r := newTestRegistry()
	a := mustParse(t, r, "A")

	tests := []struct {
		name    string
		add     func() error
		wantErr error
	}{
		{"empty name", func() error { return r.Add("", a) }, ErrEmptyName},
		{"no combos", func() error { return r.Add("x") }, ErrNoCombos},
		{"zero combo", func() error { return r.Add("x", key.Combo{}) }, key.ErrEmptyCombo},
		{"bad string", func() error { return r.AddStrings("x", "", "A+B") }, key.ErrMultipleNonMeta},
		{"zero key", func() error { return r.AddKeys("x", "", key.Key{}) }, key.ErrEmptyCombo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.add(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after failed adds, want 0", r.Len())
	}
}

func TestRegistryAddKeys(t *testing.T) {
	r := newTestRegistry()
	up := r.Catalog().MustByName("Up")
	k := r.Catalog().MustByName("K")

	if err := r.AddKeys("prev", "Previous message", up, k); err != nil {
		t.Fatalf("AddKeys() error = %v", err)
	}
	b, _ := r.Get("prev")
	if got := b.ComboStrings(); len(got) != 2 || got[0] != "Up" || got[1] != "K" {
		t.Errorf("ComboStrings() = %v, want [Up K]", got)
	}
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	r := newTestRegistry()
	_ = r.AddStrings("x", "", "A")

	b, _ := r.Get("x")
	b.Combos[0] = mustParse(t, r, "B")
	b.Enabled = false

	again, _ := r.Get("x")
	if again.Combos[0].String() != "A" || !again.Enabled {
		t.Error("mutating a returned binding changed the registry")
	}
}

func TestRegistryBindingsOrder(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"c", "a", "b"} {
		_ = r.AddStrings(name, "", "A")
	}
	_ = r.AddStrings("a", "", "B")

	var names []string
	for _, b := range r.Bindings() {
		names = append(names, b.Name)
	}
	if len(names) != 3 || names[0] != "c" || names[1] != "a" || names[2] != "b" {
		t.Errorf("Bindings() order = %v, want [c a b]", names)
	}
}

func TestRegistryEnableDisable(t *testing.T) {
	r := newTestRegistry()
	_ = r.AddStrings("save", "", "CTRL+S")
	_ = r.AddStrings("quit", "", "CTRL+Q")

	r.DisableBindings("save", "missing")
	if r.IsEnabled("save") {
		t.Error("IsEnabled(save) = true after disable")
	}
	if !r.IsEnabled("quit") {
		t.Error("IsEnabled(quit) = false, want unaffected")
	}
	if got := r.HandlersForCombo(mustParse(t, r, "CTRL+S")); len(got) != 0 {
		t.Errorf("HandlersForCombo() on disabled binding = %d, want 0", len(got))
	}

	r.EnableBindings("save")
	if !r.IsEnabled("save") {
		t.Error("IsEnabled(save) = false after enable")
	}
	if r.IsEnabled("missing") {
		t.Error("IsEnabled(missing) = true")
	}

	// Overwriting keeps the enabled flag.
	r.DisableBindings("quit")
	_ = r.AddStrings("quit", "", "CTRL+W")
	if r.IsEnabled("quit") {
		t.Error("Add() re-enabled a disabled binding")
	}
}

func TestRegistryRegisterHandler(t *testing.T) {
	r := newTestRegistry()

	reg, err := r.RegisterHandler("save", Action(func() {}))
	if err != nil {
		t.Fatalf("RegisterHandler() error = %v", err)
	}
	if reg.EventType != key.KeyDown || reg.Global || reg.ID == "" || reg.Binding != "save" {
		t.Errorf("registration = %+v", reg)
	}

	tests := []struct {
		name    string
		reg     func() error
		wantErr error
	}{
		{"empty name", func() error { _, err := r.RegisterHandler("", Action(func() {})); return err }, ErrEmptyName},
		{"nil handler", func() error { _, err := r.RegisterHandler("save", nil); return err }, ErrNilHandler},
		{"bad event", func() error {
			_, err := r.RegisterHandlerFor("save", "click", Action(func() {}), false)
			return err
		}, key.ErrUnknownEventType},
		{"bad condition", func() error {
			_, err := r.RegisterConditional("save", key.KeyDown, Action(func() {}), "folder ==")
			return err
		}, ErrInvalidCondition},
		{"nil toggle half", func() error { _, err := r.RegisterToggle("save", Action(func() {}), nil, false); return err }, ErrNilHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.reg(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryDanglingHandlerFiresOnceAdded(t *testing.T) {
	r := newTestRegistry()
	if _, err := r.RegisterHandler("later", Action(func() {})); err != nil {
		t.Fatalf("RegisterHandler() for unknown binding error = %v", err)
	}
	combo := mustParse(t, r, "CTRL+L")
	if got := r.HandlersForCombo(combo); len(got) != 0 {
		t.Fatalf("HandlersForCombo() before Add = %d, want 0", len(got))
	}
	_ = r.Add("later", combo)
	if got := r.HandlersForCombo(combo); len(got) != 1 {
		t.Errorf("HandlersForCombo() after Add = %d, want 1", len(got))
	}
}

func TestHandlersForComboOrder(t *testing.T) {
	r := newTestRegistry()
	ctrlS := mustParse(t, r, "CTRL+S")
	_ = r.Add("b", ctrlS)
	_ = r.Add("a", ctrlS)

	first, _ := r.RegisterHandler("a", Action(func() {}))
	second, _ := r.RegisterHandler("b", Action(func() {}))
	third, _ := r.RegisterHandlerFor("a", key.KeyUp, Action(func() {}), false)

	got := r.HandlersForCombo(ctrlS)
	if len(got) != 3 {
		t.Fatalf("HandlersForCombo() = %d registrations, want 3", len(got))
	}
	if got[0] != first || got[1] != second || got[2] != third {
		t.Error("HandlersForCombo() not in registration order")
	}
}

func TestHandlersForComboStrict(t *testing.T) {
	r := newTestRegistry()
	_ = r.Add("mods", key.MustCombo(key.Shift, key.Alt))
	_, _ = r.RegisterHandler("mods", Action(func() {}))

	observed := key.MustCombo(key.Alt, key.Shift)
	if got := r.HandlersForCombo(observed); len(got) != 1 {
		t.Errorf("loose HandlersForCombo() = %d, want 1", len(got))
	}

	r.SetStrict(true)
	if got := r.HandlersForCombo(observed); len(got) != 0 {
		t.Errorf("strict HandlersForCombo() = %d, want 0", len(got))
	}
	if got := r.HandlersForCombo(key.MustCombo(key.Shift, key.Alt)); len(got) != 1 {
		t.Errorf("strict HandlersForCombo() exact = %d, want 1", len(got))
	}
	if names := r.MatchingBindings(key.MustCombo(key.Shift, key.Alt)); len(names) != 1 || names[0] != "mods" {
		t.Errorf("MatchingBindings() = %v, want [mods]", names)
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := newTestRegistry()
	_ = r.AddStrings("save", "", "CTRL+S")

	a, _ := r.RegisterHandler("save", Action(func() {}))
	b, _ := r.RegisterHandler("save", Action(func() {}))

	if !r.Unregister(a) {
		t.Fatal("Unregister() = false, want true")
	}
	if r.Unregister(a) {
		t.Error("Unregister() twice = true, want false")
	}
	if got := r.Handlers("save"); len(got) != 1 || got[0] != b {
		t.Errorf("Handlers() = %v, want only the second registration", got)
	}

	_, _ = r.RegisterHandler("save", Action(func() {}))
	if n := r.UnregisterHandlers("save"); n != 2 {
		t.Errorf("UnregisterHandlers() = %d, want 2", n)
	}
	if got := r.HandlersForCombo(mustParse(t, r, "CTRL+S")); len(got) != 0 {
		t.Errorf("HandlersForCombo() after unregister = %d, want 0", len(got))
	}
}

func TestRegisterHandlers(t *testing.T) {
	r := newTestRegistry()
	regs, err := r.RegisterHandlers(map[string]Handler{
		"b": Action(func() {}),
		"a": Action(func() {}),
	})
	if err != nil {
		t.Fatalf("RegisterHandlers() error = %v", err)
	}
	if len(regs) != 2 || regs[0].Binding != "a" || regs[1].Binding != "b" {
		t.Errorf("RegisterHandlers() = %v, want a then b", regs)
	}
}

func TestRegistryAllowed(t *testing.T) {
	r := newTestRegistry()
	reg, err := r.RegisterConditional("archive", key.KeyDown, Action(func() {}), `folder == "inbox"`)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Allowed(reg, map[string]any{"folder": "inbox"}) {
		t.Error("Allowed() = false in inbox")
	}
	if r.Allowed(reg, map[string]any{"folder": "sent"}) {
		t.Error("Allowed() = true in sent")
	}
	plain, _ := r.RegisterHandler("archive", Action(func() {}))
	if !r.Allowed(plain, nil) {
		t.Error("Allowed() = false for a registration without condition")
	}
}

func TestRegistryRegisterWith(t *testing.T) {
	r := newTestRegistry()
	_ = r.AddStrings("send", "", "CTRL+Enter")

	reg, err := r.RegisterWith("send", Action(func() {}), RegisterOptions{
		EventType: key.KeyUp,
		Global:    true,
		When:      `folder == "drafts"`,
	})
	if err != nil {
		t.Fatalf("RegisterWith() error = %v", err)
	}
	if reg.EventType != key.KeyUp || !reg.Global || reg.When != `folder == "drafts"` {
		t.Errorf("RegisterWith() = %+v", reg)
	}

	def, err := r.RegisterWith("send", Action(func() {}), RegisterOptions{})
	if err != nil {
		t.Fatalf("RegisterWith() error = %v", err)
	}
	if def.EventType != key.KeyDown || def.Global {
		t.Errorf("RegisterWith() defaults = %+v", def)
	}

	if _, err := r.RegisterWith("send", Action(func() {}), RegisterOptions{EventType: "keyhold"}); !errors.Is(err, key.ErrUnknownEventType) {
		t.Errorf("RegisterWith(keyhold) error = %v, want ErrUnknownEventType", err)
	}
}

func TestRegistryReplace(t *testing.T) {
	r := newTestRegistry()
	_ = r.AddStrings("old", "", "O")
	_, _ = r.RegisterHandler("new", Action(func() {}))

	a := mustParse(t, r, "A")
	tests := []struct {
		name     string
		bindings []Binding
		wantErr  error
	}{
		{"empty name", []Binding{{Combos: []key.Combo{a}}}, ErrEmptyName},
		{"no combos", []Binding{{Name: "x"}}, ErrNoCombos},
		{"duplicate", []Binding{{Name: "x", Combos: []key.Combo{a}}, {Name: "x", Combos: []key.Combo{a}}}, ErrDuplicateName},
		{"zero combo", []Binding{{Name: "x", Combos: []key.Combo{{}}}}, key.ErrEmptyCombo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Replace(tt.bindings...); !errors.Is(err, tt.wantErr) {
				t.Errorf("Replace() error = %v, want %v", err, tt.wantErr)
			}
			if _, ok := r.Get("old"); !ok {
				t.Error("failed Replace changed the registry")
			}
		})
	}

	if err := r.Replace(Binding{Name: "new", Combos: []key.Combo{a}, Enabled: true}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if _, ok := r.Get("old"); ok || r.Len() != 1 {
		t.Errorf("Replace() left %d bindings", r.Len())
	}
	if len(r.HandlersForCombo(a)) != 1 {
		t.Error("handler registered before Replace does not fire for the new binding")
	}
}
