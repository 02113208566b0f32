package game

import (
	"image/color"
	"math"
	"time"

	"chosenoffset.com/christmasbits/internal/camera"
	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/sprite"
	"chosenoffset.com/christmasbits/internal/ui/widget"
	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

// Draw renders the map, the actors, their overhead markers, the HUD and
// any active collaborator overlay.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(background)
	m := g.Map
	if m == nil || m.TileSize <= 0 {
		return
	}
	now := g.Clock.Now()
	ts := m.TileSize

	g.Player.Smooth(playerSmoothing)
	vp := camera.ViewportFor(g.ScreenWidth, g.ScreenHeight, ts)
	g.Camera.Follow(g.Player.Visual.X, g.Player.Visual.Y, vp, m.Width, m.Height)
	ox, oy := g.Camera.Offset(g.ScreenWidth, g.ScreenHeight, m.Width, m.Height, ts)

	g.drawLayers(screen, vp, ox, oy)
	g.drawActors(screen, now, ox, oy)
	g.drawOverheads(screen, now, ox, oy)

	g.HUD.DrawDashboard(screen, g.Quest, g.Player.Pos)
	g.HUD.DrawDialog(screen, g.Dialog, now)
	for _, o := range g.Overlays {
		if o.Active() {
			o.Draw(screen)
		}
	}
}

func (g *Game) drawLayers(screen render.Image, vp camera.Viewport, ox, oy int) {
	m := g.Map
	ts := m.TileSize
	x0, y0, x1, y1 := g.Camera.VisibleRange(vp, m.Width, m.Height)

	for i := range m.Layers {
		l := &m.Layers[i]
		if l.Kind != tilemap.TileLayer || !l.Visible || g.Resolver.Classifier.IsCollisionLayer(l.Name) {
			continue
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				gid := l.At(x, y, m.Width)
				if gid == 0 {
					continue
				}
				tileset := m.TilesetFor(gid)
				if tileset == nil {
					continue
				}
				px, py := x*ts+ox, y*ts+oy
				if tileset.Image == nil {
					g.Renderer.FillRect(screen, float32(px), float32(py), float32(ts), float32(ts), missingTileset)
					continue
				}
				src, ok := tileset.SourceRect(gid)
				if !ok {
					continue
				}
				screen.DrawImage(tileset.Image.SubImage(src), render.Translate(float64(px), float64(py)))
			}
		}
	}
}

// tilePixel returns the screen position of an actor's visual cell.
func tilePixel(v entity.Vec, ts, ox, oy int) (int, int) {
	return int(math.Round(v.X*float64(ts))) + ox, int(math.Round(v.Y*float64(ts))) + oy
}

// drawActors paints NPCs and the player in ascending visual Y.
func (g *Game) drawActors(screen render.Image, now time.Time, ox, oy int) {
	playerDrawn := false
	for _, n := range g.NPCs.ByVisualY() {
		if !playerDrawn && n.Visual.Y > g.Player.Visual.Y {
			g.drawPlayer(screen, now, ox, oy)
			playerDrawn = true
		}
		g.drawNPC(screen, n, now, ox, oy)
	}
	if !playerDrawn {
		g.drawPlayer(screen, now, ox, oy)
	}
}

func (g *Game) drawPlayer(screen render.Image, now time.Time, ox, oy int) {
	ts := g.Map.TileSize
	px, py := tilePixel(g.Player.Visual, ts, ox, oy)
	set := g.Sprites.Player()
	if img := set.PlayerPose(&g.Player, now).Image(); img != nil {
		_, h := set.Size()
		screen.DrawImage(img, render.Translate(float64(px), float64(py-(h-ts))))
		return
	}
	g.placeholder(screen, px, py, playerColor)
}

func (g *Game) drawNPC(screen render.Image, n *entity.NPC, now time.Time, ox, oy int) {
	ts := g.Map.TileSize
	px, py := tilePixel(n.Visual, ts, ox, oy)
	set := g.Sprites.NPC(n.Profile)
	if img := set.NPCPose(n, now).Image(); img != nil {
		w, h := set.Size()
		screen.DrawImage(img, render.Translate(float64(px-(w-ts)/2), float64(py-(h-ts))))
		return
	}
	clr := npcColor
	if n.Role() == entity.RoleTalker {
		clr = talkerColor
	}
	g.placeholder(screen, px, py, clr)
}

func (g *Game) placeholder(screen render.Image, px, py int, clr color.Color) {
	ts := g.Map.TileSize
	size := float32(ts - 2*placeholderInset)
	g.Renderer.FillRect(screen, float32(px+placeholderInset), float32(py+placeholderInset), size, size, clr)
}

// questMarked reports whether n shows the quest indicator.
func (g *Game) questMarked(n *entity.NPC) bool {
	switch n.Role() {
	case entity.RoleQuestGiver:
		return !g.Quest.Started()
	case entity.RoleTaskGiver:
		return g.Quest.Started() && !g.Quest.IsCompleted(n.Profile.Task)
	case entity.RoleEpilogue:
		return !n.GiftAnimating
	}
	return false
}

// showsLabel reports whether n's name floats under it.
func (g *Game) showsLabel(n *entity.NPC) bool {
	if g.InVenue || n.Profile.Label == "" {
		return false
	}
	return n.Pos.Euclidean(g.Player.Pos) > labelRadius
}

func (g *Game) drawOverheads(screen render.Image, now time.Time, ox, oy int) {
	ts := g.Map.TileSize
	mark := g.Sprites.QuestMark().Frame(sprite.QuestMarkIndex(now))
	for _, n := range g.NPCs {
		px, py := tilePixel(n.Visual, ts, ox, oy)
		if g.showsLabel(n) {
			widget.OutlinedText(screen, g.Renderer, n.Profile.Label, px+ts/2, py+ts+10, widget.White, 1)
		}
		if !g.questMarked(n) {
			continue
		}
		mx, my := px, py-96
		if n.Profile.Oversized {
			mx, my = px-ts, py-3*ts-32
		}
		if mark != nil {
			screen.DrawImage(mark, render.Translate(float64(mx), float64(my)))
			continue
		}
		widget.OutlinedText(screen, g.Renderer, "!", mx+ts/2, my+32, widget.Gold, 2)
	}
}
