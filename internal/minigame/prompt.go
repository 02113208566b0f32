package minigame

import (
	"context"
	"time"

	"chosenoffset.com/christmasbits/internal/quest"
	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/ui/widget"
)

// Prompt is a stand-in task minigame: a panel describing the task that the
// player either completes with Enter or abandons with Escape.
type Prompt struct {
	Title string
	Lines []string

	renderer render.Renderer
	width    int
	height   int
	session  session[bool]
}

// NewPrompt creates a prompt overlay for a screen of the given size.
func NewPrompt(r render.Renderer, width, height int, title string, lines ...string) *Prompt {
	return &Prompt{
		Title:    title,
		Lines:    lines,
		renderer: r,
		width:    width,
		height:   height,
	}
}

// TaskPrompts builds one prompt per quest task.
func TaskPrompts(r render.Renderer, width, height int) map[quest.Task]*Prompt {
	return map[quest.Task]*Prompt{
		quest.TaskDecorator: NewPrompt(r, width, height, "Click to Pick & Place",
			"Put every ornament in its place to finish decorating the venue."),
		quest.TaskPhotographer: NewPrompt(r, width, height, "Spot Differences (Bob)",
			"Find differences on the RIGHT image.",
			"Each of the three design drafts hides one error."),
		quest.TaskBartender: NewPrompt(r, width, height, "Mix Drinks",
			"Mix 2 of each drink using correct recipes."),
	}
}

// Play shows the prompt and blocks until the player resolves it.
func (p *Prompt) Play(ctx context.Context) (bool, error) {
	ch, err := p.session.open(p.Title)
	if err != nil {
		return false, err
	}
	return wait(ctx, &p.session, ch)
}

// Active reports whether the prompt is waiting for the player.
func (p *Prompt) Active() bool {
	return p.session.active()
}

// Update reads the confirm and cancel keys.
func (p *Prompt) Update(in render.InputManager, _ time.Time) {
	if !p.Active() {
		return
	}
	switch {
	case in.IsKeyJustPressed(render.KeyEnter):
		p.session.resolve(true)
	case in.IsKeyJustPressed(render.KeyEscape):
		p.session.resolve(false)
	}
}

// Draw renders the prompt over a dimmed screen.
func (p *Prompt) Draw(screen render.Image) {
	if !p.Active() {
		return
	}
	r := p.renderer
	widget.ShadeScreen(screen, r)

	panel := widget.Centered(p.width, p.height, 460, 220)
	panel.Draw(screen, r)

	// Header strip.
	r.FillRect(screen, float32(panel.X), float32(panel.Y), float32(panel.Width), 36, widget.Red)
	r.DrawText(screen, p.Title, panel.X+panel.Padding, panel.Y+8, widget.White, 1.2)

	y := panel.Y + 36 + panel.Padding
	for _, line := range p.Lines {
		for _, wrapped := range widget.Wrap(r, line, panel.InnerWidth(), 1) {
			r.DrawText(screen, wrapped, panel.X+panel.Padding, y, widget.White, 1)
			y += panel.LineHeight
		}
	}

	footer := panel.Y + panel.Height - panel.Padding - panel.LineHeight
	r.DrawText(screen, "ENTER: done    ESC: give up", panel.X+panel.Padding, footer, widget.Gold, 1)
}
