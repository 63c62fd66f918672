package screen

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// DrawText writes text at (x, y), clipped to maxWidth cells, and returns
// the column after the last cell written. Wide graphemes occupy two
// cells; one that would straddle the clip edge is dropped.
func DrawText(c Canvas, x, y, maxWidth int, style tcell.Style, text string) int {
	end := x + maxWidth
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > end {
			break
		}
		c.SetContent(x, y, runes[0], runes[1:], style)
		for i := 1; i < w; i++ {
			c.SetContent(x+i, y, 0, nil, style)
		}
		x += w
	}
	return x
}

// FillRow paints cells x..x+width-1 of row y with blanks in style.
func FillRow(c Canvas, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		c.SetContent(x+i, y, ' ', nil, style)
	}
}

// Width returns the display width of text in cells.
func Width(text string) int {
	return uniseg.StringWidth(text)
}

// Pad truncates or right-pads text to exactly width cells.
func Pad(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		sb.WriteString(g.Str())
		used += w
	}
	sb.WriteString(strings.Repeat(" ", width-used))
	return sb.String()
}
