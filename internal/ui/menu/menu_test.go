package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/render/rendertest"
)

func TestUpdateKeys(t *testing.T) {
	in := rendertest.NewInput()
	s := NewTitle(rendertest.NewRecorder(), in, 960, 640)

	assert.False(t, s.Update())

	in.Press(render.KeyEnter)
	assert.True(t, s.Update())
	in.Clear()

	in.Press(render.KeySpace)
	assert.True(t, s.Update())
	in.Clear()

	in.Press(render.KeyEscape)
	assert.False(t, s.Update())
}

func TestUpdateClick(t *testing.T) {
	in := rendertest.NewInput()
	s := NewEnd(rendertest.NewRecorder(), in, 960, 640)
	b := s.button()

	in.CursorX, in.CursorY = 10, 10
	in.Click()
	assert.False(t, s.Update(), "click outside the button")
	in.Clear()
	assert.False(t, s.Update())

	in.CursorX, in.CursorY = b.X+b.Width/2, b.Y+b.Height/2
	in.Click()
	assert.True(t, s.Update())

	// A held button does not confirm twice.
	assert.False(t, s.Update())
}

func TestDrawTitle(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := NewTitle(rec, rendertest.NewInput(), 960, 640)
	s.Draw(rec.Screen(960, 640))

	texts := rec.Texts()
	assert.Contains(t, texts, "DESIGN CHRISTMAS BITS")
	assert.Contains(t, texts, "START GAME")
	assert.Contains(t, texts, "Press ENTER to start")
	assert.Len(t, rec.OfKind("fill"), 1)
}

func TestDrawEnd(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := NewEnd(rec, rendertest.NewInput(), 960, 640)
	s.Draw(rec.Screen(960, 640))

	texts := rec.Texts()
	for _, want := range []string{"MERRY CHRISTMAS", "& HAPPY NEW YEAR", "FROM STUDIO 8", "PLAY AGAIN"} {
		assert.Contains(t, texts, want)
	}
	assert.Contains(t, texts, "Press ENTER to play again")
}
