package screen

import (
	"hash/fnv"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// TagColor returns a stable color for a tag name. Equal names get equal
// colors; hues are spread around the color wheel.
func TagColor(name string) tcell.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	hue := float64(h.Sum32()%360)

	r, g, b := colorful.Hsv(hue, 0.55, 0.85).RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// TagStyle is a style with a tag's color as background and a readable
// foreground.
func TagStyle(name string) tcell.Style {
	bg := TagColor(name)
	fg := tcell.ColorBlack
	r, g, b := bg.RGB()
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	if l, _, _ := c.Lab(); l < 0.55 {
		fg = tcell.ColorWhite
	}
	return tcell.StyleDefault.Background(bg).Foreground(fg)
}
