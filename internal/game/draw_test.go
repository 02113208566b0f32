package game

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/quest"
	"chosenoffset.com/christmasbits/internal/render/rendertest"
	"chosenoffset.com/christmasbits/internal/sprite"
	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

func rectsOf(rec *rendertest.Recorder, colors ...color.Color) []rendertest.Op {
	var out []rendertest.Op
	for _, op := range rec.OfKind("rect") {
		for _, c := range colors {
			if op.Color == c {
				out = append(out, op)
				break
			}
		}
	}
	return out
}

func TestDrawLayers(t *testing.T) {
	rec := rendertest.NewRecorder()
	walls := make([]uint32, 16)
	walls[1*4+1] = 1
	walls[3*4+0] = 11
	hidden := make([]uint32, 16)
	hidden[0] = 1
	blocks := make([]uint32, 16)
	blocks[2*4+2] = 1
	m := &tilemap.Map{
		Width:    4,
		Height:   4,
		TileSize: 32,
		Layers: []tilemap.Layer{
			{Name: "walls", Kind: tilemap.TileLayer, Visible: true, Data: walls},
			{Name: "hidden", Kind: tilemap.TileLayer, Visible: false, Data: hidden},
			{Name: "Collision", Kind: tilemap.TileLayer, Visible: true, Data: blocks},
		},
		Tilesets: []tilemap.Tileset{
			{Name: "missing", FirstGID: 1, TileWidth: 32, TileHeight: 32, ImageWidth: 64},
			{Name: "atlas", FirstGID: 10, TileWidth: 32, TileHeight: 32, ImageWidth: 64, Image: rec.NamedImage("atlas.png", 64, 32)},
		},
	}
	f := newFixture(t, func(d *Deps) {
		d.Renderer = rec
		d.Maps = fakeMaps{"overworld": m}
	})
	f.game.NPCs = nil
	f.game.Draw(rec.Screen(960, 640))

	// A 4x4 map is centred on the 960x640 canvas.
	ox, oy := (960-128)/2, (640-128)/2

	magenta := rectsOf(rec, missingTileset)
	require.Len(t, magenta, 1, "hidden and collision layers are not drawn")
	assert.Equal(t, float64(ox+32), magenta[0].X)
	assert.Equal(t, float64(oy+32), magenta[0].Y)

	var tiles []rendertest.Op
	for _, op := range rec.OfKind("image") {
		if op.Src == "atlas.png[32,0]" {
			tiles = append(tiles, op)
		}
	}
	require.Len(t, tiles, 1)
	assert.Equal(t, float64(ox), tiles[0].X)
	assert.Equal(t, float64(oy+96), tiles[0].Y)
}

func TestDrawActorsDepthSorted(t *testing.T) {
	f := newFixture(t)
	g := f.game
	p := g.Player.Pos
	g.NPCs.FindType("extra_1").Teleport(p.Add(0, 1))
	g.NPCs.FindType("extra_2").Teleport(p.Add(1, -1))
	g.NPCs.FindType("extra_3").Teleport(p.Add(-1, 2))

	g.Draw(f.rec.Screen(960, 640))

	rects := rectsOf(f.rec, talkerColor, npcColor, playerColor)
	require.Len(t, rects, len(g.NPCs)+1)
	for i := 1; i < len(rects); i++ {
		assert.LessOrEqual(t, rects[i-1].Y, rects[i].Y, "actors drawn in ascending Y")
	}

	index := func(match func(rendertest.Op) bool) int {
		for i, op := range rects {
			if match(op) {
				return i
			}
		}
		return -1
	}
	player := index(func(op rendertest.Op) bool { return op.Color == playerColor })
	require.GreaterOrEqual(t, player, 0)
	py := rects[player].Y
	above := index(func(op rendertest.Op) bool { return op.Y == py-32 })
	below := index(func(op rendertest.Op) bool { return op.Y == py+32 })
	assert.Less(t, above, player)
	assert.Less(t, player, below)
}

func TestDrawSprites(t *testing.T) {
	rec := rendertest.NewRecorder()
	loader := rendertest.NewLoader(rec, map[string]image.Point{
		"assets/hero_stand.png":  {X: 32 * 24, Y: 64},
		"assets/Santa_stand.png": {X: 96 * 6, Y: 96},
	})
	lib := (&sprite.Loader{Resources: loader, Dir: "assets"}).Load()
	f := newFixture(t, func(d *Deps) {
		d.Renderer = rec
		d.Sprites = lib
	})
	g := f.game
	g.EnterVenue()
	g.Draw(rec.Screen(960, 640))

	var hero, santa []rendertest.Op
	for _, op := range rec.OfKind("image") {
		switch {
		case strings.HasPrefix(op.Src, "assets/hero_stand.png["):
			hero = append(hero, op)
		case strings.HasPrefix(op.Src, "assets/Santa_stand.png["):
			santa = append(santa, op)
		}
	}
	require.Len(t, hero, 1)
	require.Len(t, santa, 1)
	assert.Equal(t, float64(64), hero[0].H)
	assert.Equal(t, float64(96), santa[0].W)
	assert.Empty(t, rectsOf(rec, playerColor), "sprite replaces the placeholder")

	// The oversized sprite is centred on its cell and stands on it.
	assert.Equal(t, hero[0].X+float64((11-15)*32-32), santa[0].X)
	assert.Equal(t, hero[0].Y+float64((8-13)*32)+32-64, santa[0].Y)
}

func TestQuestMarks(t *testing.T) {
	f := newFixture(t)
	g := f.game
	alice := g.NPCs.FindRole(entity.RoleQuestGiver)
	roki := g.NPCs.FindTask(quest.TaskDecorator)
	anna := g.NPCs.FindType("extra_1")

	assert.True(t, g.questMarked(alice))
	assert.False(t, g.questMarked(roki))
	assert.False(t, g.questMarked(anna))

	g.Quest.Start()
	assert.False(t, g.questMarked(alice))
	assert.True(t, g.questMarked(roki))

	g.Quest.MarkCompleted(quest.TaskDecorator)
	assert.False(t, g.questMarked(roki))

	g.EnterVenue()
	santa := g.NPCs.FindRole(entity.RoleEpilogue)
	assert.True(t, g.questMarked(santa))
	santa.StartGift(g.Clock.Now())
	assert.False(t, g.questMarked(santa))
}

func TestQuestMarkFallbackDrawn(t *testing.T) {
	f := newFixture(t)
	f.game.Draw(f.rec.Screen(960, 640))
	assert.Contains(t, f.rec.Texts(), "!")

	f.rec.Reset()
	f.game.Quest.Start()
	for _, task := range quest.Tasks {
		f.game.Quest.MarkCompleted(task)
	}
	f.game.Draw(f.rec.Screen(960, 640))
	assert.NotContains(t, f.rec.Texts(), "!")
}

func TestLabels(t *testing.T) {
	f := newFixture(t)
	g := f.game
	bob := g.NPCs.FindTask(quest.TaskPhotographer)
	anna := g.NPCs.FindType("extra_1")

	assert.True(t, g.showsLabel(bob))
	assert.False(t, g.showsLabel(anna), "talkers carry no label")

	g.Player.Teleport(bob.Pos.Add(3, 1))
	assert.True(t, g.showsLabel(bob), "just outside the radius")
	g.Player.Teleport(bob.Pos.Add(3, 0))
	assert.False(t, g.showsLabel(bob))

	g.Player.Teleport(entity.Position{X: 1, Y: 1})
	g.Draw(f.rec.Screen(960, 640))
	assert.Contains(t, f.rec.Texts(), "Bob")

	g.EnterVenue()
	assert.False(t, g.showsLabel(g.NPCs.FindTask(quest.TaskPhotographer)), "no labels in the venue")
}

func TestDrawHUD(t *testing.T) {
	f := newFixture(t)
	g := f.game
	g.Quest.Start()
	g.Dialog.Start([]dialog.Frame{introMonologue})
	g.Draw(f.rec.Screen(960, 640))

	texts := f.rec.Texts()
	assert.Contains(t, texts, "TASKS")
	assert.Contains(t, texts, heroName)
	assert.Equal(t, background, f.rec.OfKind("fill")[0].Color)
}
