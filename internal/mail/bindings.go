package mail

import (
	"slices"
	"strings"

	"github.com/dshills/keys/internal/input/keymap"
)

// Binding names.
const (
	GoToInbox    = "goToInbox"
	GoToArchive  = "goToArchive"
	GoToTrash    = "goToTrash"
	GoToSettings = "goToSettings"
	MoveUp       = "moveUp"
	MoveDown     = "moveDown"
	TrashMail    = "trash"
	ArchiveMail  = "archive"
	SpamMail     = "spam"
	FocusSearch  = "focusSearch"
	SubmitSearch = "submitSearch"
	CancelSearch = "cancelSearch"
	DeleteDraft  = "deleteDraft"
)

// Description prefixes group bindings on the settings page.
const (
	CategoryNavigation = "Navigation"
	CategoryInbox      = "Inbox"
	CategorySearch     = "Search"
)

// whileEditing limits search box bindings to when it has focus.
const whileEditing = "editable"

// defaultBindings are the shipped shortcuts.
var defaultBindings = []struct {
	name, desc, combo string
	global            bool
	when              string
}{
	{GoToInbox, "Navigation: Go To Inbox", "SHIFT+I", false, ""},
	{GoToArchive, "Navigation: Go To Archive", "SHIFT+A", false, ""},
	{GoToTrash, "Navigation: Go To Trash", "SHIFT+T", false, ""},
	{GoToSettings, "Navigation: Go To Settings", "SHIFT+S", false, ""},
	{MoveUp, "Inbox: Select Previous", "Up", false, ""},
	{MoveDown, "Inbox: Select Next", "Down", false, ""},
	{TrashMail, "Inbox: Send To Trash", "Backspace", false, ""},
	{ArchiveMail, "Inbox: Send To Archive", "CTRL+A", false, ""},
	{SpamMail, "Inbox: Mark As Spam", "CTRL+S", false, ""},
	{FocusSearch, "Search: Focus Search Box", "/ ?", false, ""},
	{SubmitSearch, "Search: Run Search", "Enter", true, whileEditing},
	{CancelSearch, "Search: Leave Search Box", "Esc", true, whileEditing},
	{DeleteDraft, "Search: Delete Character", "Backspace", true, whileEditing},
}

// Actions maps action names to handlers driving app. The names match the
// binding names, so spec files can refer to them.
func Actions(app *App) map[string]keymap.Handler {
	return map[string]keymap.Handler{
		GoToInbox:    keymap.Action(func() { app.Navigate(RouteInbox) }),
		GoToArchive:  keymap.Action(func() { app.Navigate(RouteArchived) }),
		GoToTrash:    keymap.Action(func() { app.Navigate(RouteTrash) }),
		GoToSettings: keymap.Action(func() { app.Navigate(RouteSettings) }),
		MoveUp:       keymap.Action(app.SelectPrevious),
		MoveDown:     keymap.Action(app.SelectNext),
		TrashMail:    keymap.Action(func() { app.Trash() }),
		ArchiveMail:  keymap.Action(func() { app.Archive() }),
		SpamMail:     keymap.Action(func() { app.MarkSpam() }),
		FocusSearch:  keymap.Action(app.FocusSearch),
		SubmitSearch: keymap.Action(app.SubmitSearch),
		CancelSearch: keymap.Action(app.CancelSearch),
		DeleteDraft:  keymap.Action(app.DeleteDraft),
	}
}

// DefaultSpecs returns the shipped bindings with their handlers.
func DefaultSpecs(app *App) []keymap.Spec {
	actions := Actions(app)
	specs := make([]keymap.Spec, 0, len(defaultBindings))
	for _, b := range defaultBindings {
		specs = append(specs, keymap.Spec{
			Name:        b.name,
			Description: b.desc,
			Combos:      []string{b.combo},
			Handler:     actions[b.name],
			Global:      b.global,
			When:        b.when,
		})
	}
	return specs
}

// DefaultSpecFile returns the shipped bindings in spec file form.
func DefaultSpecFile() *keymap.SpecFile {
	f := &keymap.SpecFile{}
	for _, b := range defaultBindings {
		f.Bindings = append(f.Bindings, keymap.SpecRecord{
			Name:        b.name,
			Description: b.desc,
			Combos:      []string{b.combo},
			Action:      b.name,
			Global:      b.global,
			When:        b.when,
		})
	}
	return f
}

// Install adds the shipped bindings to reg and wires them to app.
func Install(reg *keymap.Registry, app *App) error {
	return reg.Load(DefaultSpecs(app)...)
}

// Category is a group of bindings shown together on the settings page.
type Category struct {
	Name     string
	Bindings []keymap.Binding
}

// Categories groups the bindings of reg by description prefix.
// Bindings without a known prefix are left out.
func Categories(reg *keymap.Registry) []Category {
	cats := []Category{{Name: CategoryNavigation}, {Name: CategoryInbox}, {Name: CategorySearch}}
	for _, b := range reg.Bindings() {
		for i := range cats {
			if strings.HasPrefix(b.Description, cats[i].Name+":") {
				cats[i].Bindings = append(cats[i].Bindings, b)
			}
		}
	}
	return slices.DeleteFunc(cats, func(c Category) bool { return len(c.Bindings) == 0 })
}

// ShortDescription strips the category prefix from a description.
func ShortDescription(desc string) string {
	if _, rest, ok := strings.Cut(desc, ": "); ok {
		return rest
	}
	return desc
}
