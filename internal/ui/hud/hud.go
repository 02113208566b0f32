// Package hud draws the in-game overlay: the dashboard with controls and
// quest tasks in the top-right corner, and the dialog box along the bottom.
package hud

import (
	"fmt"
	"image/color"
	"time"

	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/quest"
	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/ui/widget"
)

const (
	dashboardWidth  = 240
	dashboardMargin = 12

	dialogHeight = 140
	dialogMargin = 16

	indicatorSize  = 8
	indicatorBlink = 400 * time.Millisecond
)

var (
	dashboardFill = color.RGBA{44, 62, 80, 170}
	taskPending   = color.RGBA{236, 240, 241, 255}
	taskDone      = color.RGBA{39, 174, 96, 255}
	legendText    = color.RGBA{189, 195, 199, 255}
)

// speakerColors tints dialog names. Unknown speakers use gold.
var speakerColors = map[string]color.Color{
	"Alice":  color.RGBA{232, 67, 147, 255},
	"AA":     color.RGBA{232, 67, 147, 255},
	"Tom":    color.RGBA{9, 132, 227, 255},
	"Hero":   color.RGBA{9, 132, 227, 255},
	"Roki":   color.RGBA{108, 92, 231, 255},
	"Bob":    color.RGBA{214, 48, 49, 255},
	"Samuel": color.RGBA{0, 184, 148, 255},
}

// SpeakerColor returns the name colour for a dialog speaker.
func SpeakerColor(name string) color.Color {
	if c, ok := speakerColors[name]; ok {
		return c
	}
	return widget.Gold
}

// TaskLine is one row of the task list.
type TaskLine struct {
	Label string
	Done  bool
}

// TaskLines lists what the task panel shows: a single "find Alice" row
// until the quest is accepted, then every quest task in order.
func TaskLines(q *quest.State) []TaskLine {
	if q == nil || !q.Started() {
		return []TaskLine{{Label: "FIND ALICE"}}
	}
	lines := make([]TaskLine, 0, len(quest.Tasks))
	for _, t := range quest.Tasks {
		lines = append(lines, TaskLine{Label: t.Label(), Done: q.IsCompleted(t)})
	}
	return lines
}

// HUD manages the heads-up display.
type HUD struct {
	renderer     render.Renderer
	screenWidth  int
	screenHeight int

	// Debug adds the player's grid position to the dashboard.
	Debug bool
}

// New creates a HUD for a screen of the given size.
func New(r render.Renderer, screenWidth, screenHeight int) *HUD {
	return &HUD{
		renderer:     r,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// SetScreenSize updates the screen dimensions.
func (h *HUD) SetScreenSize(width, height int) {
	h.screenWidth = width
	h.screenHeight = height
}

// FinishAllHint labels the debug shortcut that completes every task.
const FinishAllHint = "F9: FINISH ALL"

var controls = [][2]string{
	{"WASD / ARROWS", "MOVE"},
	{"ENTER / SPACE", "TALK / NEXT"},
}

// Dashboard returns the panel the dashboard occupies for the given number
// of task rows.
func (h *HUD) Dashboard(taskRows int) widget.Panel {
	p := widget.NewPanel(h.screenWidth-dashboardWidth-dashboardMargin, dashboardMargin, dashboardWidth, 0)
	p.Background = dashboardFill
	p.LineHeight = 18

	rows := 1 + len(controls) + 1 + taskRows
	height := p.Padding*2 + rows*p.LineHeight + 12
	if h.Debug {
		height += 2*p.LineHeight + 12
	}
	p.Height = height
	return p
}

// DrawDashboard renders the controls legend, the task list and, in debug
// mode, the player's position and the finish-all shortcut.
func (h *HUD) DrawDashboard(screen render.Image, q *quest.State, pos entity.Position) {
	tasks := TaskLines(q)
	p := h.Dashboard(len(tasks))
	p.Draw(screen, h.renderer)

	x := p.X + p.Padding
	y := p.Y + p.Padding

	h.renderer.DrawText(screen, "CONTROLS", x, y, widget.Gold, 1)
	y += p.LineHeight
	for _, c := range controls {
		h.renderer.DrawText(screen, c[0], x, y, widget.White, 1)
		w, _ := h.renderer.MeasureText(c[1], 1)
		h.renderer.DrawText(screen, c[1], p.X+p.Width-p.Padding-w, y, legendText, 1)
		y += p.LineHeight
	}

	p.Divider(screen, h.renderer, y+4)
	y += 12

	h.renderer.DrawText(screen, "TASKS", x, y, widget.Gold, 1)
	y += p.LineHeight
	for _, t := range tasks {
		mark, clr := "[ ]", color.Color(taskPending)
		if t.Done {
			mark, clr = "[x]", taskDone
		}
		h.renderer.DrawText(screen, mark+" "+t.Label, x, y, clr, 1)
		y += p.LineHeight
	}

	if h.Debug {
		p.Divider(screen, h.renderer, y+4)
		y += 12
		h.renderer.DrawText(screen, fmt.Sprintf("Pos: %d, %d", pos.X, pos.Y), x, y, widget.Dim, 1)
		y += p.LineHeight
		h.renderer.DrawText(screen, FinishAllHint, x, y, widget.Red, 1)
	}
}

// DialogPanel returns the dialog box area. Clicks inside it advance the
// dialog.
func (h *HUD) DialogPanel() widget.Panel {
	return widget.NewPanel(dialogMargin, h.screenHeight-dialogHeight-dialogMargin, h.screenWidth-dialogMargin*2, dialogHeight)
}

// DrawDialog renders the current frame of an open dialog. The next
// indicator blinks while more frames follow.
func (h *HUD) DrawDialog(screen render.Image, d *dialog.Sequencer, now time.Time) {
	frame, ok := d.Current()
	if !ok {
		return
	}

	p := h.DialogPanel()
	p.Draw(screen, h.renderer)

	x := p.X + p.Padding
	y := p.Y + p.Padding
	if frame.Speaker != "" {
		h.renderer.DrawText(screen, frame.Speaker, x, y, SpeakerColor(frame.Speaker), 1)
		y += p.LineHeight + 4
	}
	for _, line := range widget.Wrap(h.renderer, frame.Text, p.InnerWidth(), 1) {
		h.renderer.DrawText(screen, line, x, y, widget.White, 1)
		y += p.LineHeight
	}

	if d.HasNext() && now.UnixMilli()/indicatorBlink.Milliseconds()%2 == 0 {
		ix := p.X + p.Width - p.Padding - indicatorSize
		iy := p.Y + p.Height - p.Padding - indicatorSize
		h.renderer.FillRect(screen, float32(ix), float32(iy), indicatorSize, indicatorSize, widget.Gold)
	}
}
