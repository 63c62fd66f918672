package mail

import (
	"slices"

	"github.com/google/uuid"
)

// Label tags an email.
type Label struct {
	Name string
	Kind string
}

// Predefined labels.
var (
	LabelImportant = Label{"Important", "important"}
	LabelFriend    = Label{"Friend", "info"}
	LabelFamily    = Label{"Family", "success"}
	LabelWork      = Label{"Work", "default"}
	LabelSpam      = Label{"Spam", "warning"}
	LabelTrash     = Label{"Trash", "inverse"}
)

// Email is one message.
type Email struct {
	ID       string
	From     string
	Subject  string
	Body     string
	Received string
	Labels   []Label

	Archived bool
	Deleted  bool
}

// NewEmail creates an email with a fresh ID.
func NewEmail(from, subject, received string, labels ...Label) *Email {
	return &Email{
		ID:       uuid.NewString()[:8],
		From:     from,
		Subject:  subject,
		Received: received,
		Labels:   slices.Clone(labels),
	}
}

// HasLabel reports whether the email carries l.
func (e *Email) HasLabel(l Label) bool {
	return slices.Contains(e.Labels, l)
}

// AddLabel adds l once.
func (e *Email) AddLabel(l Label) {
	if !e.HasLabel(l) {
		e.Labels = append(e.Labels, l)
	}
}

// RemoveLabel removes l.
func (e *Email) RemoveLabel(l Label) {
	e.Labels = slices.DeleteFunc(e.Labels, func(x Label) bool { return x == l })
}

// IsSpam reports whether the email is labelled as spam.
func (e *Email) IsSpam() bool {
	return e.HasLabel(LabelSpam)
}

// Trash moves the email to the trash, or restores it when already there.
func (e *Email) Trash() {
	e.Archived = false
	if e.Deleted {
		e.Deleted = false
		e.RemoveLabel(LabelTrash)
		return
	}
	e.Deleted = true
	e.AddLabel(LabelTrash)
}

// Archive toggles the archived state.
func (e *Email) Archive() {
	e.Archived = !e.Archived
}

// MarkSpam toggles the spam label. Spam goes to the trash and leaves it
// again when unmarked.
func (e *Email) MarkSpam() {
	if e.IsSpam() {
		e.RemoveLabel(LabelSpam)
		if e.Deleted {
			e.Trash()
		}
		return
	}
	e.AddLabel(LabelSpam)
	if !e.Deleted {
		e.Trash()
	}
}
