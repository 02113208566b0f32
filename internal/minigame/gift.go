package minigame

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/ui/widget"
)

// RevealDuration is how long a picked gift stays on screen.
const RevealDuration = 4 * time.Second

// Gift is one wrapped present.
type Gift struct {
	ID     int
	Hint   string // What the wrapping suggests
	Result string // What is actually inside
}

// Gifts are the presents on offer.
var Gifts = []Gift{
	{
		ID:     1,
		Hint:   "Looks like a cute teddy bear, soft and adorable!",
		Result: "It's a scented candle. Smells really good!",
	},
	{
		ID:     2,
		Hint:   "What is this? A Lego head storage box? Looks familiar... I think I've seen it before.",
		Result: "It's a tub of protein powder! Health is most important!",
	},
	{
		ID:     3,
		Hint:   "Is this the world-famous Labubu? Could it be a secret edition?!",
		Result: "Not Labubu, but a bottle of red wine! Cheers!",
	},
}

const (
	boxSize = 100
	boxGap  = 20
)

var (
	giftKeys = [...]render.Key{render.Key1, render.Key2, render.Key3}
	boxFill  = color.RGBA{227, 227, 227, 255}
)

// Picker is the gift-selection overlay. Keys 1 to 3 or a click pick a
// box; hovering shows its hint.
type Picker struct {
	Gifts  []Gift
	Reveal time.Duration

	renderer render.Renderer
	width    int
	height   int
	session  session[Gift]

	// Game-loop state.
	hover    int
	picked   int
	pickedAt time.Time
}

// NewPicker creates a gift picker for a screen of the given size.
func NewPicker(r render.Renderer, width, height int) *Picker {
	return &Picker{
		Gifts:    Gifts,
		Reveal:   RevealDuration,
		renderer: r,
		width:    width,
		height:   height,
		hover:    -1,
		picked:   -1,
	}
}

// Pick shows the boxes and blocks until a gift was chosen and revealed.
func (p *Picker) Pick(ctx context.Context) (Gift, error) {
	ch, err := p.session.open("gift picker")
	if err != nil {
		return Gift{}, err
	}
	return wait(ctx, &p.session, ch)
}

// Active reports whether the picker is on screen.
func (p *Picker) Active() bool {
	return p.session.active()
}

func (p *Picker) panel() widget.Panel {
	return widget.Centered(p.width, p.height, 500, 300)
}

// boxAt returns the box origin for gift i.
func (p *Picker) boxAt(i int) (x, y int) {
	panel := p.panel()
	total := len(p.Gifts)*boxSize + (len(p.Gifts)-1)*boxGap
	x = panel.X + (panel.Width-total)/2 + i*(boxSize+boxGap)
	y = panel.Y + 60
	return x, y
}

func (p *Picker) boxUnder(cx, cy int) int {
	for i := range p.Gifts {
		x, y := p.boxAt(i)
		if cx >= x && cx < x+boxSize && cy >= y && cy < y+boxSize {
			return i
		}
	}
	return -1
}

// Update handles hover, picking and the timed reveal.
func (p *Picker) Update(in render.InputManager, now time.Time) {
	if !p.Active() {
		p.hover, p.picked = -1, -1
		return
	}

	if p.picked >= 0 {
		if now.Sub(p.pickedAt) >= p.Reveal {
			gift := p.Gifts[p.picked]
			p.hover, p.picked = -1, -1
			p.session.resolve(gift)
		}
		return
	}

	p.hover = p.boxUnder(in.GetCursorPosition())
	choice := -1
	for i, key := range giftKeys {
		if i < len(p.Gifts) && in.IsKeyJustPressed(key) {
			choice = i
			break
		}
	}
	if choice < 0 && p.hover >= 0 && in.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		choice = p.hover
	}
	if choice >= 0 {
		p.picked = choice
		p.pickedAt = now
	}
}

// Caption returns the text under the boxes.
func (p *Picker) Caption() string {
	switch {
	case p.picked >= 0:
		return p.Gifts[p.picked].Result
	case p.hover >= 0:
		return p.Gifts[p.hover].Hint
	}
	return "Pick a gift... (1-3)"
}

// Draw renders the boxes and the caption.
func (p *Picker) Draw(screen render.Image) {
	if !p.Active() {
		return
	}
	r := p.renderer
	widget.ShadeScreen(screen, r)

	panel := p.panel()
	panel.Draw(screen, r)
	r.FillRect(screen, float32(panel.X), float32(panel.Y), float32(panel.Width), 36, widget.Red)
	r.DrawText(screen, "Pick a Gift!", panel.X+panel.Padding, panel.Y+8, widget.White, 1.2)

	for i := range p.Gifts {
		x, y := p.boxAt(i)
		var border color.Color = widget.White
		switch {
		case i == p.picked:
			border = widget.Green
		case p.picked < 0 && i == p.hover:
			border = widget.Gold
		}
		r.FillRect(screen, float32(x), float32(y), boxSize, boxSize, boxFill)
		r.StrokeRect(screen, float32(x), float32(y), boxSize, boxSize, 4, border)
		widget.CenteredText(screen, r, fmt.Sprint(i+1), x+boxSize/2, y+boxSize/2-8, widget.Black, 1.5)
	}

	y := panel.Y + 60 + boxSize + 20
	for _, line := range widget.Wrap(r, p.Caption(), panel.InnerWidth(), 1) {
		widget.CenteredText(screen, r, line, panel.X+panel.Width/2, y, widget.Gold, 1)
		y += panel.LineHeight
	}
}
