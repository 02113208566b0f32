package game

import (
	"image/color"
	"log/slog"
	"time"

	"chosenoffset.com/christmasbits/internal/clock"
	"chosenoffset.com/christmasbits/internal/config"
	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/minigame"
	"chosenoffset.com/christmasbits/internal/quest"
	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/sprite"
	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

// MapLoader resolves a map path, falling back to a stub map on failure.
type MapLoader interface {
	LoadOrStub(path string) *tilemap.Map
}

// Deps are the collaborators a session is built from. Only Renderer and
// Input are required.
type Deps struct {
	Config   *config.Config
	Clock    clock.Clock
	Renderer render.Renderer
	Input    render.InputManager
	Maps     MapLoader
	Sprites  *sprite.Library
	Scripts  *dialog.Library
	Logger   *slog.Logger

	// Minigames run a task's minigame; a task without one only plays its
	// dialog.
	Minigames map[quest.Task]minigame.Game
	Gifts     minigame.GiftPicker
	// Overlays are updated and drawn by the loop while active.
	Overlays []minigame.Overlay
}

// Sequence names.
const (
	SeqIntro    = "intro"
	SeqEscort   = "escort"
	SeqVenue    = "venue"
	SeqEpilogue = "epilogue"
)

func taskSequence(t quest.Task) string {
	return "task:" + string(t)
}

const (
	playerSmoothing = 0.15
	npcSmoothing    = 0.2

	introDelay  = 500 * time.Millisecond
	venueDelay  = 500 * time.Millisecond
	giftDelay   = time.Second
	revealDelay = 500 * time.Millisecond

	// escortTeleportDistance is how far, in Manhattan tiles, the quest
	// giver may be before she is moved closer to the player.
	escortTeleportDistance = 12
	escortMinRadius        = 8
	escortMaxRadius        = 10

	labelRadius = 3
	spawnNudge  = 2
)

var (
	background       = color.RGBA{17, 17, 17, 255}
	missingTileset   = color.RGBA{255, 0, 255, 255}
	talkerColor      = color.RGBA{155, 89, 182, 255}
	npcColor         = color.RGBA{46, 204, 113, 255}
	playerColor      = color.RGBA{52, 152, 219, 255}
	placeholderInset = 4
)
