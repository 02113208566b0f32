package game

import (
	"context"
	"log/slog"

	"chosenoffset.com/christmasbits/internal/config"
	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/ui/menu"
)

// State is the screen the manager shows.
type State int

const (
	StateTitle State = iota
	StatePlaying
	StateEnd
)

func (s State) String() string {
	switch s {
	case StateTitle:
		return "title"
	case StatePlaying:
		return "playing"
	case StateEnd:
		return "end"
	}
	return "unknown"
}

// Manager handles the overall game state: title screen, a playing session
// and the end screen.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        State
	Title        *menu.Screen
	End          *menu.Screen
	Game         *Game

	ctx    context.Context
	deps   Deps
	logger *slog.Logger
}

// NewManager creates a manager on the title screen. Each session it starts
// is built from deps.
func NewManager(ctx context.Context, deps Deps) *Manager {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w, h := deps.Config.Window.Width, deps.Config.Window.Height
	return &Manager{
		ScreenWidth:  w,
		ScreenHeight: h,
		State:        StateTitle,
		Title:        menu.NewTitle(deps.Renderer, deps.Input, w, h),
		End:          menu.NewEnd(deps.Renderer, deps.Input, w, h),
		ctx:          ctx,
		deps:         deps,
		logger:       logger,
	}
}

// StartSession replaces any running session with a fresh one and plays
// the intro.
func (m *Manager) StartSession() {
	if m.Game != nil {
		m.Game.Close()
	}
	m.Game = New(m.ctx, m.deps)
	m.Game.StartIntro()
	m.setState(StatePlaying)
}

func (m *Manager) setState(s State) {
	if m.State != s {
		m.logger.Info("screen changed", "from", m.State.String(), "to", s.String())
	}
	m.State = s
}

// Update updates the current screen.
func (m *Manager) Update() error {
	switch m.State {
	case StateTitle:
		if m.Title.Update() {
			m.StartSession()
		}
	case StatePlaying:
		if m.Game == nil {
			m.setState(StateTitle)
			return nil
		}
		if err := m.Game.Update(); err != nil {
			return err
		}
		if m.Game.Finished {
			m.setState(StateEnd)
		}
	case StateEnd:
		if m.End.Update() {
			m.StartSession()
		}
	}
	return nil
}

// Draw draws the current screen.
func (m *Manager) Draw(screen render.Image) {
	switch m.State {
	case StateTitle:
		m.Title.Draw(screen)
	case StatePlaying:
		if m.Game != nil {
			m.Game.Draw(screen)
		}
	case StateEnd:
		m.End.Draw(screen)
	}
}

// Layout returns the fixed logical screen size.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	return m.ScreenWidth, m.ScreenHeight
}

// Close ends the running session.
func (m *Manager) Close() {
	if m.Game != nil {
		m.Game.Close()
	}
}
