package source

import (
	"context"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keys/internal/input/key"
)

// FocusFunc reports the kind of element that currently has focus,
// e.g. "input" while a text field is being edited.
type FocusFunc func() string

// Terminal reads key events from a tcell screen.
//
// Terminals only report key presses, so each press is emitted as a
// keydown, followed by a keypress when it produced a character.
// Other tcell events are passed to the optional event hook.
type Terminal struct {
	*Memory

	screen tcell.Screen
	focus  FocusFunc
	hook   func(tcell.Event)
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithFocus sets the function that supplies each event's Target.
func WithFocus(f FocusFunc) TerminalOption {
	return func(t *Terminal) {
		t.focus = f
	}
}

// WithEventHook receives every non-key event, such as resizes.
func WithEventHook(fn func(tcell.Event)) TerminalOption {
	return func(t *Terminal) {
		t.hook = fn
	}
}

// NewTerminal creates a source reading from screen.
// The screen must already be initialized.
func NewTerminal(screen tcell.Screen, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		Memory: NewMemory(),
		screen: screen,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run polls the screen and emits key events until ctx is done or the
// screen is finalized.
func (t *Terminal) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.Feed(ev)
	}
}

// Feed converts one tcell event and emits the result.
// Returns false when the event was not a key event.
func (t *Terminal) Feed(ev tcell.Event) bool {
	ek, ok := ev.(*tcell.EventKey)
	if !ok {
		if t.hook != nil {
			t.hook(ev)
		}
		return false
	}

	code, mods, ok := ConvertKey(ek)
	if !ok {
		return false
	}

	target := ""
	if t.focus != nil {
		target = t.focus()
	}

	when := ek.When()
	down := t.newEvent(key.KeyDown, code, mods, target, when)
	t.Emit(down)
	if ek.Key() == tcell.KeyRune && unicode.IsPrint(ek.Rune()) {
		t.Emit(t.newEvent(key.KeyPress, code, mods, target, when))
	}
	return true
}

func (t *Terminal) newEvent(typ key.EventType, code int, mods key.Modifier, target string, when time.Time) *key.Event {
	ev := key.NewEvent(typ, code, mods)
	ev.Target = target
	if !when.IsZero() {
		ev.Time = when
	}
	return ev
}

// ConvertKey maps a tcell key event to a browser key code and modifiers.
// Returns false for keys with no browser equivalent.
func ConvertKey(ev *tcell.EventKey) (int, key.Modifier, bool) {
	mods := convertMod(ev.Modifiers())

	if ev.Key() == tcell.KeyRune {
		code, shifted, ok := runeCode(ev.Rune())
		if !ok {
			return 0, 0, false
		}
		if shifted {
			mods = mods.With(key.ModShift)
		}
		return code, mods, true
	}

	switch ev.Key() {
	case tcell.KeyBacktab:
		return 9, mods.With(key.ModShift), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return 8, mods, true
	}

	if code, ok := specialCodes[ev.Key()]; ok {
		return code, mods, true
	}

	k := ev.Key()
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return 65 + int(k-tcell.KeyCtrlA), mods.With(key.ModCtrl), true
	}
	return 0, 0, false
}

func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}

var specialCodes = map[tcell.Key]int{
	tcell.KeyEnter:  13,
	tcell.KeyTab:    9,
	tcell.KeyEscape: 27,
	tcell.KeyPgUp:   33,
	tcell.KeyPgDn:   34,
	tcell.KeyEnd:    35,
	tcell.KeyHome:   36,
	tcell.KeyLeft:   37,
	tcell.KeyUp:     38,
	tcell.KeyRight:  39,
	tcell.KeyDown:   40,
	tcell.KeyInsert: 45,
	tcell.KeyDelete: 46,
	tcell.KeyPause:  19,
	tcell.KeyF1:     112,
	tcell.KeyF2:     113,
	tcell.KeyF3:     114,
	tcell.KeyF4:     115,
	tcell.KeyF5:     116,
	tcell.KeyF6:     117,
	tcell.KeyF7:     118,
	tcell.KeyF8:     119,
	tcell.KeyF9:     120,
	tcell.KeyF10:    121,
	tcell.KeyF11:    122,
	tcell.KeyF12:    123,
	tcell.KeyF13:    124,
	tcell.KeyF14:    125,
	tcell.KeyF15:    126,
}

// punctuation maps unshifted and shifted characters to their key code.
var punctuation = map[rune]struct {
	code    int
	shifted bool
}{
	';': {186, false}, ':': {186, true},
	'=': {187, false}, '+': {187, true},
	',': {188, false}, '<': {188, true},
	'-': {189, false}, '_': {189, true},
	'.': {190, false}, '>': {190, true},
	'/': {191, false}, '?': {191, true},
	'`': {192, false}, '~': {192, true},
	'[': {219, false}, '{': {219, true},
	'\\': {220, false}, '|': {220, true},
	']': {221, false}, '}': {221, true},
	'\'': {222, false}, '"': {222, true},
	')': {48, true}, '!': {49, true}, '@': {50, true}, '#': {51, true}, '$': {52, true},
	'%': {53, true}, '^': {54, true}, '&': {55, true}, '*': {56, true}, '(': {57, true},
}

func runeCode(r rune) (code int, shifted bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return 65 + int(r-'a'), false, true
	case r >= 'A' && r <= 'Z':
		return 65 + int(r-'A'), true, true
	case r >= '0' && r <= '9':
		return 48 + int(r-'0'), false, true
	case r == ' ':
		return 32, false, true
	}
	if p, found := punctuation[r]; found {
		return p.code, p.shifted, true
	}
	return 0, false, false
}
