// Package screen draws text to a terminal cell grid.
package screen

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Canvas is the drawing surface. tcell.Screen satisfies it.
type Canvas interface {
	// Size returns the width and height in cells.
	Size() (width, height int)

	// SetContent sets one cell. Positions outside the canvas are ignored.
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)

	// Clear blanks every cell.
	Clear()

	// Show flushes pending changes to the display.
	Show()
}

// Null is an in-memory canvas for tests.
type Null struct {
	mu     sync.Mutex
	width  int
	height int
	cells  [][]cell
	shows  int
}

type cell struct {
	r     rune
	style tcell.Style
}

// NewNull creates a blank canvas of the given size.
func NewNull(width, height int) *Null {
	n := &Null{width: width, height: height}
	n.Clear()
	return n
}

func (n *Null) Size() (int, int) {
	return n.width, n.height
}

func (n *Null) SetContent(x, y int, primary rune, _ []rune, style tcell.Style) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if x >= 0 && x < n.width && y >= 0 && y < n.height {
		n.cells[y][x] = cell{r: primary, style: style}
	}
}

func (n *Null) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cells = make([][]cell, n.height)
	for y := range n.cells {
		n.cells[y] = make([]cell, n.width)
		for x := range n.cells[y] {
			n.cells[y][x] = cell{r: ' ', style: tcell.StyleDefault}
		}
	}
}

func (n *Null) Show() {
	n.mu.Lock()
	n.shows++
	n.mu.Unlock()
}

// Shows returns how many times Show was called.
func (n *Null) Shows() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shows
}

// Line returns row y as text without trailing blanks.
func (n *Null) Line(y int) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if y < 0 || y >= n.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range n.cells[y] {
		if c.r != 0 {
			sb.WriteRune(c.r)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// Text returns every row joined by newlines.
func (n *Null) Text() string {
	lines := make([]string, n.height)
	for y := range lines {
		lines[y] = n.Line(y)
	}
	return strings.Join(lines, "\n")
}

// StyleAt returns the style of one cell.
func (n *Null) StyleAt(x, y int) tcell.Style {
	n.mu.Lock()
	defer n.mu.Unlock()
	if x < 0 || x >= n.width || y < 0 || y >= n.height {
		return tcell.StyleDefault
	}
	return n.cells[y][x].style
}
