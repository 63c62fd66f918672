package mail

import (
	"log/slog"
	"strings"
	"sync"
)

// Folder selects which emails the inbox page lists.
type Folder string

const (
	FolderInbox    Folder = ""
	FolderArchived Folder = "archived"
	FolderTrash    Folder = "trash"
)

// Page is a top level view.
type Page string

const (
	PageInbox    Page = "inbox"
	PageSearch   Page = "search"
	PageSettings Page = "settings"
)

// Route is a parsed location such as "#/inbox/trash".
type Route struct {
	Page   Page
	Folder Folder
	Query  string
}

// Standard locations.
const (
	RouteInbox    = "#/inbox"
	RouteArchived = "#/inbox/archived"
	RouteTrash    = "#/inbox/trash"
	RouteSettings = "#/settings"
)

// ParseRoute parses a location. Unknown locations route to the inbox.
func ParseRoute(hash string) Route {
	parts := strings.SplitN(strings.TrimPrefix(hash, "#/"), "/", 2)
	param := ""
	if len(parts) == 2 {
		param = parts[1]
	}

	switch Page(parts[0]) {
	case PageSettings:
		return Route{Page: PageSettings}
	case PageSearch:
		if param != "" {
			return Route{Page: PageSearch, Query: param}
		}
	case PageInbox:
		switch Folder(param) {
		case FolderArchived, FolderTrash:
			return Route{Page: PageInbox, Folder: Folder(param)}
		}
	}
	return Route{Page: PageInbox}
}

// String renders the route as a location.
func (r Route) String() string {
	switch r.Page {
	case PageSettings:
		return RouteSettings
	case PageSearch:
		return "#/search/" + r.Query
	}
	if r.Folder != FolderInbox {
		return RouteInbox + "/" + string(r.Folder)
	}
	return RouteInbox
}

// App is the mail client state. It is safe for concurrent use.
type App struct {
	mu       sync.RWMutex
	emails   []*Email
	route    Route
	selected string
	focus    string
	draft    string
	logger   *slog.Logger
}

// NewApp creates an app holding emails, showing the inbox.
func NewApp(logger *slog.Logger, emails ...*Email) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		emails: emails,
		route:  Route{Page: PageInbox},
		logger: logger,
	}
}

// SampleEmails returns the demo mailbox.
func SampleEmails() []*Email {
	return []*Email{
		NewEmail("Paul Schoenfelder", "Hey man, check this out!", "9:40 PM", LabelFriend),
		NewEmail("Acme Company", "We're going public!", "8:37 PM", LabelImportant, LabelWork),
		NewEmail("Mom", "You haven't called in two weeks!!", "5:43 PM", LabelFamily),
		NewEmail("Super Important Guy", "You really have to read this right away!", "5:00 PM", LabelSpam),
	}
}

// Navigate switches to a location and clears the selection.
func (a *App) Navigate(hash string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.route = ParseRoute(hash)
	a.selected = ""
	a.logger.Debug("[mail] navigate", "route", a.route.String())
}

// Search routes to the results for query.
func (a *App) Search(query string) {
	a.Navigate("#/search/" + query)
}

// Route returns the current route.
func (a *App) Route() Route {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.route
}

// FocusSearchBox is the focus target of the search box.
const FocusSearchBox = "input"

// SetFocus records the kind of element being edited, e.g. "input" while
// the search box is active. The empty string means nothing.
func (a *App) SetFocus(target string) {
	a.mu.Lock()
	a.focus = target
	a.mu.Unlock()
}

// Focus returns the element being edited.
func (a *App) Focus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.focus
}

// Draft returns the text typed into the search box.
func (a *App) Draft() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.draft
}

// FocusSearch gives the search box focus.
func (a *App) FocusSearch() {
	a.SetFocus(FocusSearchBox)
}

// Type appends text to the search box. Ignored unless it has focus.
func (a *App) Type(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.focus == FocusSearchBox {
		a.draft += text
	}
}

// DeleteDraft removes the last character typed into the search box.
func (a *App) DeleteDraft() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r := []rune(a.draft); len(r) > 0 {
		a.draft = string(r[:len(r)-1])
	}
}

// SubmitSearch searches for the draft and leaves the search box.
// An empty draft just leaves it.
func (a *App) SubmitSearch() {
	a.mu.Lock()
	q := strings.TrimSpace(a.draft)
	a.draft = ""
	a.focus = ""
	a.mu.Unlock()

	if q != "" {
		a.Search(q)
	}
}

// CancelSearch clears the draft and leaves the search box.
func (a *App) CancelSearch() {
	a.mu.Lock()
	a.draft = ""
	a.focus = ""
	a.mu.Unlock()
}

// Visible returns copies of the emails listed by the current route.
func (a *App) Visible() []Email {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []Email
	for _, e := range a.visibleLocked() {
		c := *e
		c.Labels = append([]Label(nil), e.Labels...)
		out = append(out, c)
	}
	return out
}

func (a *App) visibleLocked() []*Email {
	var out []*Email
	for _, e := range a.emails {
		if a.listedLocked(e) {
			out = append(out, e)
		}
	}
	return out
}

func (a *App) listedLocked(e *Email) bool {
	switch a.route.Page {
	case PageSettings:
		return false
	case PageSearch:
		q := a.route.Query
		matches := strings.Contains(e.Subject, q) || strings.Contains(e.Body, q) || strings.Contains(e.From, q)
		return matches && !e.Archived && !e.Deleted
	}
	switch a.route.Folder {
	case FolderArchived:
		return e.Archived
	case FolderTrash:
		return e.Deleted
	default:
		return !e.Archived && !e.Deleted
	}
}

// Selected returns the selected email ID, or "" when nothing is selected.
func (a *App) Selected() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.selected
}

// SelectNext moves the selection down. With nothing selected it selects
// the first visible email.
func (a *App) SelectNext() {
	a.moveSelection(1)
}

// SelectPrevious moves the selection up. With nothing selected it selects
// the first visible email.
func (a *App) SelectPrevious() {
	a.moveSelection(-1)
}

func (a *App) moveSelection(delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	visible := a.visibleLocked()
	if len(visible) == 0 {
		return
	}
	for i, e := range visible {
		if e.ID != a.selected {
			continue
		}
		if j := i + delta; j >= 0 && j < len(visible) {
			a.selected = visible[j].ID
		}
		return
	}
	a.selected = visible[0].ID
}

// Trash moves the selected email to the trash, or out of it.
func (a *App) Trash() bool {
	return a.applySelected("trash", (*Email).Trash)
}

// Archive archives the selected email, or unarchives it.
func (a *App) Archive() bool {
	return a.applySelected("archive", (*Email).Archive)
}

// MarkSpam toggles the spam label on the selected email.
func (a *App) MarkSpam() bool {
	return a.applySelected("spam", (*Email).MarkSpam)
}

// applySelected runs fn on the selected email and clears the selection.
// Returns false when nothing was selected.
func (a *App) applySelected(op string, fn func(*Email)) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.selected == "" {
		return false
	}
	for _, e := range a.emails {
		if e.ID == a.selected {
			fn(e)
			a.logger.Debug("[mail] update", "op", op, "email", e.ID, "subject", e.Subject)
			break
		}
	}
	a.selected = ""
	return true
}
