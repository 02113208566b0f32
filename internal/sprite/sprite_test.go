package sprite

import (
	"bytes"
	"image"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/render/rendertest"
)

var epoch = time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)

func stripSize(frames, w, h int) image.Point {
	return image.Point{X: frames * w, Y: h}
}

func testLibrary(t *testing.T, names map[string]image.Point) (*Library, *bytes.Buffer) {
	t.Helper()
	images := make(map[string]image.Point, len(names))
	for name, size := range names {
		images[filepath.Join("assets", name)] = size
	}
	var logs bytes.Buffer
	l := &Loader{
		Resources: rendertest.NewLoader(rendertest.NewRecorder(), images),
		Dir:       "assets",
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	}
	return l.Load(), &logs
}

func TestSheetFrames(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := &Sheet{Image: rec.NamedImage("strip", 24*32, 64), FrameW: 32, FrameH: 64}

	assert.Equal(t, 24, s.Frames())
	frame := s.Frame(7)
	require.NotNil(t, frame)
	assert.Equal(t, image.Rect(224, 0, 256, 64), frame.Bounds())
	assert.Nil(t, s.Frame(24))
	assert.Nil(t, s.Frame(-1))

	var missing *Sheet
	assert.Zero(t, missing.Frames())
	assert.Nil(t, missing.Frame(0))
}

func TestLoadFallsBackOnMissingImages(t *testing.T) {
	lib, logs := testLibrary(t, map[string]image.Point{
		"hero_stand.png": stripSize(24, CharacterWidth, CharacterHeight),
		"quest_mark.png": stripSize(8, QuestMarkWidth, QuestMarkHeight),
	})

	require.NotNil(t, lib.Player().Stand)
	assert.Nil(t, lib.Player().Run)
	assert.NotNil(t, lib.QuestMark())
	assert.Contains(t, logs.String(), "hero_run.png")
}

func TestNPCSetResolution(t *testing.T) {
	lib := Empty()

	santa := lib.NPC(entity.ResolveProfile("santa"))
	assert.True(t, santa.Oversized)
	w, h := santa.Size()
	assert.Equal(t, OversizedSize, w)
	assert.Equal(t, OversizedSize, h)

	unknown := lib.NPC(entity.Profile{SpriteSet: "ghost"})
	assert.Same(t, lib.NPC(entity.ResolveProfile("extra_1")), unknown)

	w, h = unknown.Size()
	assert.Equal(t, CharacterWidth, w)
	assert.Equal(t, CharacterHeight, h)
}

func TestPlayerPose(t *testing.T) {
	lib, _ := testLibrary(t, map[string]image.Point{
		"hero_stand.png": stripSize(24, CharacterWidth, CharacterHeight),
		"hero_run.png":   stripSize(24, CharacterWidth, CharacterHeight),
	})
	set := lib.Player()

	a := entity.NewActor(entity.Position{X: 1, Y: 1})
	a.MoveTo(entity.Position{X: 2, Y: 1}, entity.DirRight, epoch)

	running := set.PlayerPose(&a, epoch.Add(50*time.Millisecond))
	assert.Same(t, set.Run, running.Sheet)
	assert.Less(t, running.Index, entity.FramesPerStrip, "facing right uses the first block")

	a.MoveTo(entity.Position{X: 2, Y: 2}, entity.DirDown, epoch)
	standing := set.PlayerPose(&a, epoch.Add(time.Second))
	assert.Same(t, set.Stand, standing.Sheet)
	assert.GreaterOrEqual(t, standing.Index, DirectionalIndex(entity.DirDown, 0))
	assert.NotNil(t, standing.Image())
}

func TestSetRunThresholds(t *testing.T) {
	lib, _ := testLibrary(t, map[string]image.Point{
		"hero_stand.png": stripSize(24, CharacterWidth, CharacterHeight),
		"hero_run.png":   stripSize(24, CharacterWidth, CharacterHeight),
	})
	set := lib.Player()
	a := entity.NewActor(entity.Position{X: 1, Y: 1})
	a.MoveTo(entity.Position{X: 2, Y: 1}, entity.DirRight, epoch)

	later := epoch.Add(500 * time.Millisecond)
	assert.Same(t, set.Stand, set.PlayerPose(&a, later).Sheet)

	lib.SetRunThresholds(time.Second, time.Second)
	assert.Same(t, set.Run, set.PlayerPose(&a, later).Sheet)
	assert.Equal(t, time.Second, lib.NPC(entity.ResolveProfile("extra_2")).Timing.RunThreshold)
}

func TestGiftPoseIsOneShot(t *testing.T) {
	lib, _ := testLibrary(t, map[string]image.Point{
		"Santa_stand.png": stripSize(6, OversizedSize, OversizedSize),
		"Santa_gift.png":  stripSize(6, OversizedSize, OversizedSize),
	})
	santa := entity.NewNPC("npc5", "Santa", entity.Position{X: 11, Y: 8})
	set := lib.NPC(santa.Profile)

	idle := set.NPCPose(santa, epoch)
	assert.Same(t, set.Stand, idle.Sheet)

	santa.StartGift(epoch)
	assert.Equal(t, 0, set.NPCPose(santa, epoch).Index)
	assert.Equal(t, 2, set.NPCPose(santa, epoch.Add(450*time.Millisecond)).Index)
	last := set.NPCPose(santa, epoch.Add(10*time.Second))
	assert.Same(t, set.Gift, last.Sheet)
	assert.Equal(t, entity.FramesPerStrip-1, last.Index)
}

func TestPoseWithoutImage(t *testing.T) {
	set := Empty().Player()
	a := entity.NewActor(entity.Position{})
	assert.Nil(t, set.PlayerPose(&a, epoch).Image())
}

func TestQuestMarkIndexCycles(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < QuestMarkFrames; i++ {
		seen[QuestMarkIndex(epoch.Add(time.Duration(i)*QuestMarkPeriod))] = true
	}
	assert.Len(t, seen, QuestMarkFrames)
}
