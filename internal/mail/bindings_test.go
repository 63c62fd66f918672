package mail

import (
	"testing"

	"github.com/dshills/keys/internal/input"
	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
	"github.com/dshills/keys/internal/input/source"
)

type fixture struct {
	app *App
	reg *keymap.Registry
	src *source.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	app := NewApp(discard, SampleEmails()...)
	reg := keymap.NewRegistry(keymap.WithLogger(discard))
	if err := Install(reg, app); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	src := source.NewMemory()
	d := input.New(reg, src, input.WithLogger(discard))
	d.Enable()
	return &fixture{app: app, reg: reg, src: src}
}

func (f *fixture) press(t *testing.T, text string) *key.Event {
	t.Helper()
	c, err := f.reg.Catalog().ParseCombo(text)
	if err != nil {
		t.Fatal(err)
	}
	return f.src.Type(f.app.Focus(), c)[0]
}

func TestInstallNavigation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		combo string
		want  string
	}{
		{"SHIFT+A", RouteArchived},
		{"SHIFT+T", RouteTrash},
		{"SHIFT+S", RouteSettings},
		{"SHIFT+I", RouteInbox},
	}
	for _, tt := range tests {
		ev := f.press(t, tt.combo)
		if got := f.app.Route().String(); got != tt.want {
			t.Errorf("%s routed to %q, want %q", tt.combo, got, tt.want)
		}
		if !ev.DefaultPrevented() {
			t.Errorf("%s was not suppressed", tt.combo)
		}
	}

	// Plain A is not bound.
	if ev := f.press(t, "A"); ev.DefaultPrevented() {
		t.Error("unbound A was suppressed")
	}
}

func TestInstallInboxActions(t *testing.T) {
	f := newFixture(t)

	f.press(t, "Down")
	f.press(t, "CTRL+A")
	f.press(t, "Down")
	f.press(t, "Backspace")
	f.press(t, "Down")
	f.press(t, "Down")
	f.press(t, "Up")
	f.press(t, "CTRL+S")

	folders := map[string]int{RouteInbox: 1, RouteArchived: 1, RouteTrash: 2}
	for route, want := range folders {
		f.app.Navigate(route)
		if got := len(f.app.Visible()); got != want {
			t.Errorf("%s lists %d emails, want %d", route, got, want)
		}
	}
}

func TestInstallRespectsFocus(t *testing.T) {
	f := newFixture(t)

	f.app.SetFocus("input")
	f.press(t, "SHIFT+S")
	if f.app.Route().Page != PageInbox {
		t.Error("shortcut fired while typing in the search box")
	}

	f.app.SetFocus("")
	f.press(t, "SHIFT+S")
	if f.app.Route().Page != PageSettings {
		t.Error("shortcut did not fire after focus left the search box")
	}
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	_ = f.reg.AddStrings("debug", "Developer toggle", "F12")

	cats := Categories(f.reg)
	if len(cats) != 3 {
		t.Fatalf("Categories() = %d groups, want 3", len(cats))
	}
	if cats[0].Name != CategoryNavigation || len(cats[0].Bindings) != 4 {
		t.Errorf("navigation = %s with %d bindings", cats[0].Name, len(cats[0].Bindings))
	}
	if cats[1].Name != CategoryInbox || len(cats[1].Bindings) != 5 {
		t.Errorf("inbox = %s with %d bindings", cats[1].Name, len(cats[1].Bindings))
	}
	if cats[2].Name != CategorySearch || len(cats[2].Bindings) != 4 {
		t.Errorf("search = %s with %d bindings", cats[2].Name, len(cats[2].Bindings))
	}
	if got := ShortDescription(cats[0].Bindings[0].Description); got != "Go To Inbox" {
		t.Errorf("ShortDescription() = %q, want %q", got, "Go To Inbox")
	}
	if got := ShortDescription("plain"); got != "plain" {
		t.Errorf("ShortDescription(plain) = %q", got)
	}
}

func TestDefaultSpecFile(t *testing.T) {
	app := NewApp(discard, SampleEmails()...)
	reg := keymap.NewRegistry(keymap.WithLogger(discard))

	specs, err := DefaultSpecFile().Specs(Actions(app))
	if err != nil {
		t.Fatalf("Specs() error = %v", err)
	}
	if err := reg.Load(specs...); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Len() != 13 {
		t.Errorf("Len() = %d, want 13", reg.Len())
	}
	if regs := reg.Handlers(SubmitSearch); len(regs) != 1 || !regs[0].Global || regs[0].When != whileEditing {
		t.Errorf("submitSearch registration = %+v", regs)
	}
	for _, b := range reg.Bindings() {
		if len(reg.Handlers(b.Name)) != 1 {
			t.Errorf("binding %s has %d handlers, want 1", b.Name, len(reg.Handlers(b.Name)))
		}
	}
}

func TestInstallSearchBox(t *testing.T) {
	f := newFixture(t)

	f.press(t, "/ ?")
	if f.app.Focus() != FocusSearchBox {
		t.Fatalf("Focus() = %q after /, want %q", f.app.Focus(), FocusSearchBox)
	}

	f.app.Type("publicx")
	f.press(t, "Backspace")
	if got := f.app.Draft(); got != "public" {
		t.Errorf("Draft() = %q, want %q", got, "public")
	}
	f.app.Navigate(RouteInbox)
	if got := len(f.app.Visible()); got != 4 {
		t.Errorf("Backspace in the search box trashed an email: %d visible", got)
	}

	// Inbox shortcuts are paused while typing.
	f.press(t, "SHIFT+T")
	if f.app.Route().Folder == FolderTrash {
		t.Error("SHIFT+T navigated while the search box had focus")
	}

	f.press(t, "Enter")
	if got := f.app.Route(); got.Page != PageSearch || got.Query != "public" {
		t.Errorf("Route() = %+v, want search for public", got)
	}
	if f.app.Focus() != "" {
		t.Errorf("Focus() = %q after Enter, want none", f.app.Focus())
	}
	if got := len(f.app.Visible()); got != 1 {
		t.Errorf("search lists %d emails, want 1", got)
	}

	// Enter outside the search box does nothing.
	if ev := f.press(t, "Enter"); ev.DefaultPrevented() {
		t.Error("Enter was handled outside the search box")
	}

	f.press(t, "/ ?")
	f.app.Type("zzz")
	f.press(t, "Esc")
	if f.app.Focus() != "" || f.app.Draft() != "" {
		t.Errorf("after Esc: Focus() = %q, Draft() = %q", f.app.Focus(), f.app.Draft())
	}
}
