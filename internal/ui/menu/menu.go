// Package menu draws the full-screen title and end screens.
package menu

import (
	"image/color"

	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/ui/widget"
)

var (
	titleBackground = color.RGBA{20, 20, 30, 255}
	endBackground   = color.RGBA{0, 0, 0, 255}
	creditColor     = color.RGBA{149, 165, 166, 255}
	buttonText      = color.RGBA{0, 0, 0, 255}
)

const (
	buttonWidth  = 260
	buttonHeight = 44
)

// Screen is a static screen with a headline, an optional subtitle and a
// single button. Enter, Space or a click on the button confirms it.
type Screen struct {
	Headline   []string
	Subtitle   string
	Button     string
	Credit     string
	Background color.Color
	HeadColor  color.Color
	SubColor   color.Color

	renderer       render.Renderer
	input          render.InputManager
	screenWidth    int
	screenHeight   int
	lastMouseClick bool
}

// NewTitle creates the title screen.
func NewTitle(r render.Renderer, input render.InputManager, width, height int) *Screen {
	return &Screen{
		Headline:     []string{"DESIGN CHRISTMAS BITS"},
		Button:       "START GAME",
		Subtitle:     "Press ENTER to start",
		Background:   titleBackground,
		HeadColor:    widget.White,
		SubColor:     widget.Dim,
		renderer:     r,
		input:        input,
		screenWidth:  width,
		screenHeight: height,
	}
}

// NewEnd creates the closing screen.
func NewEnd(r render.Renderer, input render.InputManager, width, height int) *Screen {
	return &Screen{
		Headline:     []string{"MERRY CHRISTMAS", "& HAPPY NEW YEAR"},
		Subtitle:     "FROM STUDIO 8",
		Button:       "PLAY AGAIN",
		Credit:       "Press ENTER to play again",
		Background:   endBackground,
		HeadColor:    widget.Red,
		SubColor:     widget.Green,
		renderer:     r,
		input:        input,
		screenWidth:  width,
		screenHeight: height,
	}
}

// SetScreenSize updates the screen dimensions.
func (s *Screen) SetScreenSize(width, height int) {
	s.screenWidth = width
	s.screenHeight = height
}

// Update reports whether the player confirmed the screen this tick.
func (s *Screen) Update() bool {
	if s.input.IsKeyJustPressed(render.KeyEnter) || s.input.IsKeyJustPressed(render.KeySpace) {
		return true
	}

	mousePressed := s.input.IsMouseButtonPressed(render.MouseButtonLeft)
	clicked := mousePressed && !s.lastMouseClick
	s.lastMouseClick = mousePressed
	if !clicked {
		return false
	}
	x, y := s.input.GetCursorPosition()
	return s.button().Contains(x, y)
}

func (s *Screen) button() widget.Panel {
	p := widget.NewPanel((s.screenWidth-buttonWidth)/2, s.screenHeight/2+60, buttonWidth, buttonHeight)
	p.Background = widget.Gold
	return p
}

// Draw renders the screen.
func (s *Screen) Draw(screen render.Image) {
	screen.Fill(s.Background)

	cx := s.screenWidth / 2
	y := s.screenHeight/2 - 40*len(s.Headline) - 40
	for _, line := range s.Headline {
		widget.OutlinedText(screen, s.renderer, line, cx, y, s.HeadColor, 2.5)
		y += 48
	}
	if s.Subtitle != "" {
		widget.CenteredText(screen, s.renderer, s.Subtitle, cx, y+8, s.SubColor, 1.5)
	}

	b := s.button()
	b.Draw(screen, s.renderer)
	_, h := s.renderer.MeasureText(s.Button, 1.5)
	widget.CenteredText(screen, s.renderer, s.Button, cx, b.Y+(b.Height-h)/2, buttonText, 1.5)

	if s.Credit != "" {
		widget.CenteredText(screen, s.renderer, s.Credit, cx, b.Y+b.Height+40, creditColor, 1)
	}
}
