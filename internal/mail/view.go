package mail

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keys/internal/input/keymap"
	"github.com/dshills/keys/internal/screen"
)

var (
	styleBar      = tcell.StyleDefault.Reverse(true).Bold(true)
	styleTab      = tcell.StyleDefault.Dim(true)
	styleTabOn    = tcell.StyleDefault.Bold(true).Underline(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleHeading  = tcell.StyleDefault.Bold(true)
	styleCombo    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

var tabs = []struct {
	title string
	route string
}{
	{"Inbox", RouteInbox},
	{"Archive", RouteArchived},
	{"Trash", RouteTrash},
	{"Settings", RouteSettings},
}

// Render draws the app onto c: a title bar, the folder tabs, the current
// page and a status line. Settings lists the bindings of reg.
func Render(c screen.Canvas, app *App, reg *keymap.Registry, status string) {
	c.Clear()
	w, h := c.Size()
	if w <= 0 || h < 4 {
		c.Show()
		return
	}

	route := app.Route()
	screen.FillRow(c, 0, 0, w, styleBar)
	screen.DrawText(c, 1, 0, w-2, styleBar, "Mail  "+route.String())

	x := 1
	for _, tab := range tabs {
		style := styleTab
		if tab.route == route.String() {
			style = styleTabOn
		}
		x = screen.DrawText(c, x, 1, w-x, style, tab.title) + 2
	}
	drawSearchBox(c, app, w)

	body := h - 4
	if route.Page == PageSettings {
		renderSettings(c, reg, 3, body, w)
	} else {
		renderList(c, app, 3, body, w)
	}

	screen.FillRow(c, 0, h-1, w, styleBar)
	screen.DrawText(c, 1, h-1, w-2, styleBar, status)
	c.Show()
}

func drawSearchBox(c screen.Canvas, app *App, w int) {
	const width = 24
	x := w - width - 1
	if x < 40 {
		return
	}
	text := "/ search"
	style := styleTab
	if app.Focus() == FocusSearchBox {
		text = app.Draft() + "_"
		style = styleSelected
	}
	screen.DrawText(c, x, 1, width, style, screen.Pad(text, width))
}

func renderList(c screen.Canvas, app *App, top, rows, w int) {
	emails := app.Visible()
	if len(emails) == 0 {
		screen.DrawText(c, 2, top, w-2, styleTab, "No messages")
		return
	}

	selected := app.Selected()
	for i, e := range emails {
		if i >= rows {
			break
		}
		y := top + i
		style := tcell.StyleDefault
		marker := "  "
		if e.ID == selected {
			style = styleSelected
			marker = "> "
			screen.FillRow(c, 0, y, w, style)
		}
		line := marker + screen.Pad(e.From, 22) + " " + screen.Pad(e.Received, 8) + " " + e.Subject
		x := screen.DrawText(c, 0, y, w, style, line)
		for _, l := range e.Labels {
			x = screen.DrawText(c, x+1, y, w-x-1, screen.TagStyle(l.Name), " "+l.Name+" ")
		}
	}
}

func renderSettings(c screen.Canvas, reg *keymap.Registry, top, rows, w int) {
	y := top
	for _, cat := range Categories(reg) {
		if y >= top+rows {
			return
		}
		screen.DrawText(c, 1, y, w-1, styleHeading, cat.Name)
		y++
		for _, b := range cat.Bindings {
			if y >= top+rows {
				return
			}
			desc := ShortDescription(b.Description)
			if !b.Enabled {
				desc += " (off)"
			}
			x := screen.DrawText(c, 3, y, w-3, tcell.StyleDefault, screen.Pad(desc, 28))
			screen.DrawText(c, x+1, y, w-x-1, styleCombo, strings.Join(b.ComboStrings(), ", "))
			y++
		}
		y++
	}
}

// StatusLine summarizes the selection and the route for the bottom bar.
func StatusLine(app *App) string {
	if app.Focus() == FocusSearchBox {
		return "Typing: Enter searches, Esc leaves the search box"
	}
	n := len(app.Visible())
	if app.Selected() == "" {
		return fmt.Sprintf("%d messages  Up/Down select  SHIFT+S shortcuts  CTRL+Q quit", n)
	}
	return fmt.Sprintf("%d messages  Backspace trash  CTRL+A archive  CTRL+S spam", n)
}
