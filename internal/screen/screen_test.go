package screen

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestDrawText(t *testing.T) {
	tests := []struct {
		name     string
		x        int
		maxWidth int
		text     string
		want     string
		wantEnd  int
	}{
		{"fits", 0, 20, "Inbox", "Inbox", 5},
		{"offset", 2, 20, "Inbox", "  Inbox", 7},
		{"clipped", 0, 3, "Inbox", "Inb", 3},
		{"wide rune", 0, 10, "日本", "日本", 4},
		{"wide rune at edge", 0, 3, "日本", "日", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNull(10, 1)
			end := DrawText(n, tt.x, 0, tt.maxWidth, tcell.StyleDefault, tt.text)
			if end != tt.wantEnd {
				t.Errorf("DrawText() = %d, want %d", end, tt.wantEnd)
			}
			if got := n.Line(0); got != tt.want {
				t.Errorf("Line(0) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abcd"},
		{"日本", 3, "日 "},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := Pad(tt.text, tt.width); got != tt.want {
			t.Errorf("Pad(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
		if tt.width > 0 && Width(Pad(tt.text, tt.width)) != tt.width {
			t.Errorf("Width(Pad(%q, %d)) != %d", tt.text, tt.width, tt.width)
		}
	}
}

func TestNullCanvas(t *testing.T) {
	n := NewNull(4, 2)
	bold := tcell.StyleDefault.Bold(true)

	n.SetContent(1, 1, 'x', nil, bold)
	n.SetContent(9, 9, 'y', nil, bold)

	if got := n.Line(1); got != " x" {
		t.Errorf("Line(1) = %q, want %q", got, " x")
	}
	if n.StyleAt(1, 1) != bold {
		t.Error("StyleAt(1, 1) is not bold")
	}
	if got := n.Text(); got != "\n x" {
		t.Errorf("Text() = %q", got)
	}

	n.Show()
	n.Clear()
	if n.Line(1) != "" || n.Shows() != 1 {
		t.Errorf("after Clear: Line(1) = %q, Shows() = %d", n.Line(1), n.Shows())
	}
}

func TestTagColor(t *testing.T) {
	if TagColor("Work") != TagColor("Work") {
		t.Error("TagColor() is not stable")
	}
	if TagColor("Work") == TagColor("Family") {
		t.Error("TagColor() collides for Work and Family")
	}
	_, bg, _ := TagStyle("Spam").Decompose()
	if bg != TagColor("Spam") {
		t.Errorf("TagStyle() background = %v, want %v", bg, TagColor("Spam"))
	}
}
