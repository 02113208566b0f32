// Package widget holds the small drawing helpers shared by the HUD, the
// menus and the minigame overlays.
package widget

import (
	"image/color"
	"strings"

	"chosenoffset.com/christmasbits/internal/render"
)

// Common colours.
var (
	White  = color.RGBA{255, 255, 255, 255}
	Black  = color.RGBA{0, 0, 0, 255}
	Gold   = color.RGBA{241, 196, 15, 255}
	Red    = color.RGBA{231, 76, 60, 255}
	Green  = color.RGBA{46, 204, 113, 255}
	Dim    = color.RGBA{150, 150, 150, 255}
	Shade  = color.RGBA{0, 0, 0, 160}
	Window = color.RGBA{17, 17, 17, 235}
)

// Panel is a filled box with a border.
type Panel struct {
	X, Y          int
	Width, Height int

	Background color.Color
	Border     color.Color
	Padding    int
	LineHeight int
}

// NewPanel creates a dark panel with a white border.
func NewPanel(x, y, width, height int) Panel {
	return Panel{
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		Background: Window,
		Border:     White,
		Padding:    12,
		LineHeight: 20,
	}
}

// Centered returns a panel of the given size centred on a screen.
func Centered(screenW, screenH, width, height int) Panel {
	return NewPanel((screenW-width)/2, (screenH-height)/2, width, height)
}

// Draw renders the background and border.
func (p Panel) Draw(screen render.Image, r render.Renderer) {
	r.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.Background)
	if p.Border != nil {
		r.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 3, p.Border)
	}
}

// Divider draws a horizontal rule across the panel's inner width.
func (p Panel) Divider(screen render.Image, r render.Renderer, y int) {
	r.FillRect(screen, float32(p.X+p.Padding), float32(y), float32(p.Width-p.Padding*2), 1, Dim)
}

// InnerWidth is the width available to text.
func (p Panel) InnerWidth() int {
	return p.Width - p.Padding*2
}

// Contains reports whether (x, y) lies inside the panel.
func (p Panel) Contains(x, y int) bool {
	return x >= p.X && x < p.X+p.Width && y >= p.Y && y < p.Y+p.Height
}

// Wrap breaks text into lines no wider than maxWidth. A single word wider
// than maxWidth gets a line of its own.
func Wrap(r render.Renderer, text string, maxWidth int, scale float64) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w, _ := r.MeasureText(candidate, scale); w > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// CenteredText draws text horizontally centred on cx.
func CenteredText(screen render.Image, r render.Renderer, text string, cx, y int, clr color.Color, scale float64) {
	w, _ := r.MeasureText(text, scale)
	r.DrawText(screen, text, cx-w/2, y, clr, scale)
}

// OutlinedText draws text centred on cx with a one-pixel dark outline.
func OutlinedText(screen render.Image, r render.Renderer, text string, cx, y int, clr color.Color, scale float64) {
	w, _ := r.MeasureText(text, scale)
	x := cx - w/2
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		r.DrawText(screen, text, x+d[0], y+d[1], Black, scale)
	}
	r.DrawText(screen, text, x, y, clr, scale)
}

// ShadeScreen dims the whole screen.
func ShadeScreen(screen render.Image, r render.Renderer) {
	w, h := screen.Size()
	r.FillRect(screen, 0, 0, float32(w), float32(h), Shade)
}
