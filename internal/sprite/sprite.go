// Package sprite loads the character frame strips and picks the frame to
// draw for an actor.
package sprite

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/render"
)

// Frame sizes in pixels.
const (
	CharacterWidth  = 32
	CharacterHeight = 64
	OversizedSize   = 96
	QuestMarkWidth  = 32
	QuestMarkHeight = 64
)

// Animation constants.
const (
	QuestMarkFrames = 8
	QuestMarkPeriod = 150 * time.Millisecond
	GiftPeriod      = 200 * time.Millisecond
	// OversizedStandPeriod paces the single-row idle strip of oversized NPCs.
	OversizedStandPeriod = 250 * time.Millisecond
)

// Sheet is a horizontal strip of equally sized frames.
type Sheet struct {
	Image  render.Image
	FrameW int
	FrameH int
}

// Frames returns the number of whole frames in the strip.
func (s *Sheet) Frames() int {
	if s == nil || s.Image == nil || s.FrameW <= 0 {
		return 0
	}
	w, _ := s.Image.Size()
	return w / s.FrameW
}

// Frame returns frame i, or nil when the strip is too short.
func (s *Sheet) Frame(i int) render.Image {
	if i < 0 || i >= s.Frames() {
		return nil
	}
	x := i * s.FrameW
	return s.Image.SubImage(image.Rect(x, 0, x+s.FrameW, s.FrameH))
}

// Set is the family of strips one character is drawn from. Sheets that
// failed to load are nil.
type Set struct {
	Stand *Sheet
	Run   *Sheet
	// Gift is the one-shot present animation of the epilogue NPC.
	Gift      *Sheet
	Oversized bool
	Timing    entity.Timing
}

// Size returns the on-screen frame size.
func (s *Set) Size() (w, h int) {
	if s.Oversized {
		return OversizedSize, OversizedSize
	}
	return CharacterWidth, CharacterHeight
}

// Pose selects a sheet and frame for a character.
type Pose struct {
	Sheet *Sheet
	Index int
}

// Image returns the frame image, or nil when nothing can be drawn.
func (p Pose) Image() render.Image {
	if p.Sheet == nil {
		return nil
	}
	return p.Sheet.Frame(p.Index)
}

// DirectionalIndex addresses a frame in a strip laid out as four
// direction blocks of entity.FramesPerStrip frames.
func DirectionalIndex(dir entity.Direction, frame int) int {
	return int(dir)*entity.FramesPerStrip + frame
}

// PlayerPose picks the player's frame.
func (s *Set) PlayerPose(a *entity.Actor, now time.Time) Pose {
	frame, running := s.Timing.Frame(a, now)
	return s.walkPose(a.Facing, frame, running)
}

// NPCPose picks an NPC's frame.
func (s *Set) NPCPose(n *entity.NPC, now time.Time) Pose {
	if n.GiftAnimating {
		sheet := s.Gift
		if sheet == nil {
			sheet = s.Stand
		}
		return Pose{Sheet: sheet, Index: entity.OneShotFrame(n.GiftStart, now, GiftPeriod, entity.FramesPerStrip)}
	}
	if s.Oversized {
		return Pose{Sheet: s.Stand, Index: entity.FrameAt(now, OversizedStandPeriod, entity.FramesPerStrip)}
	}
	frame, running := s.Timing.Frame(&n.Actor, now)
	return s.walkPose(n.Facing, frame, running)
}

func (s *Set) walkPose(dir entity.Direction, frame int, running bool) Pose {
	sheet := s.Stand
	if running && s.Run != nil {
		sheet = s.Run
	}
	return Pose{Sheet: sheet, Index: DirectionalIndex(dir, frame)}
}

// QuestMarkIndex returns the frame of the bobbing quest mark.
func QuestMarkIndex(now time.Time) int {
	return entity.FrameAt(now, QuestMarkPeriod, QuestMarkFrames)
}

// Library holds every loaded sprite set.
type Library struct {
	player    *Set
	npcs      map[string]*Set
	questMark *Sheet
}

// NPCSpriteSets are the sprite families loaded from <name>_stand.png and
// <name>_run.png.
var NPCSpriteSets = []string{
	entity.TypeQuestGiver, "decorator", "photographer", "bartender",
	"extra_1", "extra_2", "extra_3", "extra_4", "extra_5", "extra_6",
}

// Loader reads sprite images from an asset directory.
type Loader struct {
	Resources render.ResourceLoader
	Dir       string
	Logger    *slog.Logger
}

func (l *Loader) sheet(name string, w, h int) *Sheet {
	if l.Resources == nil {
		return nil
	}
	path := filepath.Join(l.Dir, name)
	img, err := l.Resources.LoadImage(path)
	if err != nil {
		logger := l.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("sprite image failed to load", "path", path, "error", err)
		return nil
	}
	return &Sheet{Image: img, FrameW: w, FrameH: h}
}

// Load reads all sprite sets. Missing images are logged and leave the
// corresponding sheet nil; drawing then falls back to placeholders.
func (l *Loader) Load() *Library {
	lib := &Library{npcs: make(map[string]*Set, len(NPCSpriteSets)+1)}
	lib.player = &Set{
		Stand:  l.sheet("hero_stand.png", CharacterWidth, CharacterHeight),
		Run:    l.sheet("hero_run.png", CharacterWidth, CharacterHeight),
		Timing: entity.PlayerTiming,
	}
	for _, name := range NPCSpriteSets {
		lib.npcs[name] = &Set{
			Stand:  l.sheet(fmt.Sprintf("%s_stand.png", name), CharacterWidth, CharacterHeight),
			Run:    l.sheet(fmt.Sprintf("%s_run.png", name), CharacterWidth, CharacterHeight),
			Timing: entity.NPCTiming,
		}
	}
	lib.npcs[entity.TypeEpilogue] = &Set{
		Stand:     l.sheet("Santa_stand.png", OversizedSize, OversizedSize),
		Gift:      l.sheet("Santa_gift.png", OversizedSize, OversizedSize),
		Oversized: true,
		Timing:    entity.NPCTiming,
	}
	lib.questMark = l.sheet("quest_mark.png", QuestMarkWidth, QuestMarkHeight)
	return lib
}

// Empty returns a library with no images, for running without assets.
func Empty() *Library {
	return (&Loader{}).Load()
}

// Player returns the player's sprite set.
func (lib *Library) Player() *Set {
	return lib.player
}

// NPC returns the sprite set for a profile's sprite family. Unknown
// families use the default extra.
func (lib *Library) NPC(p entity.Profile) *Set {
	if set, ok := lib.npcs[p.SpriteSet]; ok {
		return set
	}
	if set, ok := lib.npcs[entity.TypeDefaultExtra]; ok {
		return set
	}
	return &Set{Oversized: p.Oversized, Timing: entity.NPCTiming}
}

// SetRunThresholds changes how long after a step characters keep their
// running animation.
func (lib *Library) SetRunThresholds(player, npc time.Duration) {
	lib.player.Timing.RunThreshold = player
	for _, set := range lib.npcs {
		set.Timing.RunThreshold = npc
	}
}

// QuestMark returns the quest-mark strip, or nil.
func (lib *Library) QuestMark() *Sheet {
	return lib.questMark
}
