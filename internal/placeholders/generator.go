// Package placeholders generates stand-in art and maps so the game runs
// without its real asset pack.
package placeholders

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"

	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/sprite"
)

// TileSize is the size of every placeholder tile.
const TileSize = 32

// Map sizes in tiles.
const (
	OverworldWidth  = 80
	OverworldHeight = 60
	VenueWidth      = 24
	VenueHeight     = 16
)

// File names written by Generate.
const (
	TilesetFile   = "tiles.png"
	OverworldFile = "map.json"
	VenueFile     = "party_map.json"
)

// Tile ids in the placeholder tileset, in atlas order.
const (
	gidFloor uint32 = iota + 1
	gidFloorAlt
	gidWall
	gidRug
)

// ColorPalette holds the placeholder colours.
var ColorPalette = struct {
	Floor    color.RGBA
	FloorAlt color.RGBA
	Wall     color.RGBA
	Rug      color.RGBA
	Snow     color.RGBA
	Skin     color.RGBA
	Outline  color.RGBA
	Gold     color.RGBA
}{
	Floor:    color.RGBA{68, 92, 72, 255},
	FloorAlt: color.RGBA{62, 84, 66, 255},
	Wall:     color.RGBA{120, 60, 50, 255},
	Rug:      color.RGBA{170, 30, 40, 255},
	Snow:     color.RGBA{235, 240, 245, 255},
	Skin:     color.RGBA{240, 200, 160, 255},
	Outline:  color.RGBA{20, 20, 20, 255},
	Gold:     color.RGBA{255, 215, 0, 255},
}

// characterColors gives each sprite family its body colour.
var characterColors = map[string]color.RGBA{
	"hero":                {52, 152, 219, 255},
	entity.TypeQuestGiver: {231, 76, 60, 255},
	"decorator":           {46, 204, 113, 255},
	"photographer":        {241, 196, 15, 255},
	"bartender":           {155, 89, 182, 255},
	"extra_1":             {26, 188, 156, 255},
	"extra_2":             {230, 126, 34, 255},
	"extra_3":             {236, 112, 160, 255},
	"extra_4":             {127, 140, 141, 255},
	"extra_5":             {52, 73, 94, 255},
	"extra_6":             {192, 57, 43, 255},
}

// Rect is a block of tiles, inclusive of both corners.
type Rect struct {
	X0, Y0, X1, Y1 int
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Buildings are the solid blocks placed on the overworld.
var Buildings = []Rect{
	{X0: 5, Y0: 3, X1: 12, Y1: 8},
	{X0: 25, Y0: 40, X1: 32, Y1: 46},
	{X0: 60, Y0: 20, X1: 70, Y1: 28},
}

// Bar is the counter placed in the venue.
var Bar = Rect{X0: 2, Y0: 12, X1: 4, Y1: 12}

var venueRug = Rect{X0: 9, Y0: 7, X1: 13, Y1: 9}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBorderedTile creates a tile with a border
func CreateBorderedTile(fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := CreateSolidTile(fillColor)
	for i := 0; i < borderWidth; i++ {
		for x := 0; x < TileSize; x++ {
			img.Set(x, i, borderColor)
			img.Set(x, TileSize-1-i, borderColor)
		}
		for y := 0; y < TileSize; y++ {
			img.Set(i, y, borderColor)
			img.Set(TileSize-1-i, y, borderColor)
		}
	}
	return img
}

// CreateAtlas lays tiles out in a single row.
func CreateAtlas(tiles []*image.RGBA) *image.RGBA {
	atlas := image.NewRGBA(image.Rect(0, 0, len(tiles)*TileSize, TileSize))
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		dst := image.Rect(i*TileSize, 0, (i+1)*TileSize, TileSize)
		draw.Draw(atlas, dst, tile, image.Point{}, draw.Src)
	}
	return atlas
}

// Tileset returns the floor, alternate floor, wall and rug tiles.
func Tileset() *image.RGBA {
	p := ColorPalette
	return CreateAtlas([]*image.RGBA{
		CreateSolidTile(p.Floor),
		CreateSolidTile(p.FloorAlt),
		CreateBorderedTile(p.Wall, Darken(p.Wall, 0.6), 2),
		CreateBorderedTile(p.Rug, p.Gold, 1),
	})
}

func fillCircle(img *image.RGBA, cx, cy, r int, clr color.Color) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, clr)
			}
		}
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, clr color.Color) {
	draw.Draw(img, r, &image.Uniform{clr}, image.Point{}, draw.Src)
}

// drawFigure paints one character frame with its top-left at (ox, oy).
// bob lifts the figure for running frames; dir places the eyes.
func drawFigure(img *image.RGBA, ox, oy, w, h int, body color.RGBA, dir entity.Direction, bob int) {
	p := ColorPalette
	unit := w / 8
	headR := 2 * unit
	cx := ox + w/2
	headY := oy + h - 11*unit - bob

	fillRect(img, image.Rect(ox+2*unit, headY+headR, ox+w-2*unit, oy+h-unit-bob), body)
	fillRect(img, image.Rect(ox+2*unit, oy+h-3*unit-bob, ox+w-2*unit, oy+h-2*unit-bob), Darken(body, 0.6))
	fillCircle(img, cx, headY, headR, p.Skin)
	// Santa hat.
	fillRect(img, image.Rect(cx-headR, headY-headR-unit, cx+headR, headY-headR+unit/2), p.Rug)
	fillRect(img, image.Rect(cx-headR, headY-headR+unit/2, cx+headR, headY-headR+unit), p.Snow)

	eye := max(unit/2, 1)
	switch dir {
	case entity.DirDown:
		fillRect(img, image.Rect(cx-unit, headY, cx-unit+eye, headY+eye), p.Outline)
		fillRect(img, image.Rect(cx+unit-eye, headY, cx+unit, headY+eye), p.Outline)
	case entity.DirLeft:
		fillRect(img, image.Rect(cx-headR+unit/2, headY, cx-headR+unit/2+eye, headY+eye), p.Outline)
	case entity.DirRight:
		fillRect(img, image.Rect(cx+headR-unit/2-eye, headY, cx+headR-unit/2, headY+eye), p.Outline)
	}
}

// CharacterStrip creates a directional strip: four facings of
// entity.FramesPerStrip frames each, in entity.Direction order.
func CharacterStrip(body color.RGBA, running bool) *image.RGBA {
	w, h := sprite.CharacterWidth, sprite.CharacterHeight
	frames := 4 * entity.FramesPerStrip
	img := image.NewRGBA(image.Rect(0, 0, frames*w, h))
	for dir := entity.DirRight; dir <= entity.DirDown; dir++ {
		for f := 0; f < entity.FramesPerStrip; f++ {
			bob := 0
			if running && f%2 == 1 {
				bob = 2
			}
			drawFigure(img, sprite.DirectionalIndex(dir, f)*w, 0, w, h, body, dir, bob)
		}
	}
	return img
}

// SantaStrip creates the oversized epilogue strip. The gift strip raises
// a present over the last frames.
func SantaStrip(gift bool) *image.RGBA {
	p := ColorPalette
	size := sprite.OversizedSize
	img := image.NewRGBA(image.Rect(0, 0, entity.FramesPerStrip*size, size))
	for f := 0; f < entity.FramesPerStrip; f++ {
		ox := f * size
		drawFigure(img, ox+size/4, size/4, size/2, 3*size/4, p.Rug, entity.DirDown, f%2)
		if gift && f >= entity.FramesPerStrip/2 {
			lift := (f - entity.FramesPerStrip/2) * 4
			box := image.Rect(ox+size/2-10, size/4-lift, ox+size/2+10, size/4+20-lift)
			fillRect(img, box, p.Gold)
			fillRect(img, image.Rect(box.Min.X+8, box.Min.Y, box.Min.X+12, box.Max.Y), p.Rug)
		}
	}
	return img
}

// QuestMarkStrip creates the bouncing exclamation mark.
func QuestMarkStrip() *image.RGBA {
	p := ColorPalette
	w, h := sprite.QuestMarkWidth, sprite.QuestMarkHeight
	img := image.NewRGBA(image.Rect(0, 0, sprite.QuestMarkFrames*w, h))
	for f := 0; f < sprite.QuestMarkFrames; f++ {
		lift := f
		if f >= sprite.QuestMarkFrames/2 {
			lift = sprite.QuestMarkFrames - f
		}
		ox, top := f*w, 16-2*lift
		fillRect(img, image.Rect(ox+12, top, ox+20, top+28), p.Gold)
		fillRect(img, image.Rect(ox+12, top+34, ox+20, top+42), p.Gold)
	}
	return img
}

// tiledMap is the subset of the Tiled JSON format the map loader reads.
type tiledMap struct {
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	TileWidth    int            `json:"tilewidth"`
	TileHeight   int            `json:"tileheight"`
	Orientation  string         `json:"orientation"`
	TiledVersion string         `json:"tiledversion"`
	Layers       []tiledLayer   `json:"layers"`
	Tilesets     []tiledTileset `json:"tilesets"`
}

type tiledLayer struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
	Visible bool          `json:"visible"`
	Data    []uint32      `json:"data,omitempty"`
	Objects []tiledObject `json:"objects,omitempty"`
}

type tiledObject struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type tiledTileset struct {
	FirstGID    int    `json:"firstgid"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	ImageWidth  int    `json:"imagewidth"`
	ImageHeight int    `json:"imageheight"`
	TileWidth   int    `json:"tilewidth"`
	TileHeight  int    `json:"tileheight"`
}

// layout builds the floor, walls and collision layers of a w x h map.
// Borders and every solid block are walls; rugs replace the floor.
func layout(w, h int, solid []Rect, rugs []Rect) []tiledLayer {
	floor := make([]uint32, w*h)
	walls := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			floor[i] = gidFloor
			if (x+y)%2 == 1 {
				floor[i] = gidFloorAlt
			}
			for _, r := range rugs {
				if r.contains(x, y) {
					floor[i] = gidRug
				}
			}
			wall := x == 0 || y == 0 || x == w-1 || y == h-1
			for _, r := range solid {
				wall = wall || r.contains(x, y)
			}
			if wall {
				walls[i] = gidWall
			}
		}
	}
	collision := make([]uint32, len(walls))
	copy(collision, walls)
	return []tiledLayer{
		{Name: "floor", Type: "tilelayer", Width: w, Height: h, Visible: true, Data: floor},
		{Name: "walls", Type: "tilelayer", Width: w, Height: h, Visible: true, Data: walls},
		{Name: "collision", Type: "tilelayer", Width: w, Height: h, Visible: false, Data: collision},
	}
}

func newMap(w, h int, layers []tiledLayer, spawn entity.Position) tiledMap {
	objects := tiledLayer{Name: "spawns", Type: "objectgroup", Visible: true, Objects: []tiledObject{
		{Name: "player", X: float64(spawn.X * TileSize), Y: float64(spawn.Y * TileSize)},
	}}
	return tiledMap{
		Width:        w,
		Height:       h,
		TileWidth:    TileSize,
		TileHeight:   TileSize,
		Orientation:  "orthogonal",
		TiledVersion: "1.10.2",
		Layers:       append(layers, objects),
		Tilesets: []tiledTileset{{
			FirstGID:    1,
			Name:        "placeholders",
			Image:       TilesetFile,
			ImageWidth:  4 * TileSize,
			ImageHeight: TileSize,
			TileWidth:   TileSize,
			TileHeight:  TileSize,
		}},
	}
}

// overworldMap returns the overworld with the player spawn at start.
func overworldMap(start entity.Position) tiledMap {
	return newMap(OverworldWidth, OverworldHeight, layout(OverworldWidth, OverworldHeight, Buildings, nil), start)
}

// venueMap returns the party venue with the player spawn at start.
func venueMap(start entity.Position) tiledMap {
	return newMap(VenueWidth, VenueHeight, layout(VenueWidth, VenueHeight, []Rect{Bar}, []Rect{venueRug}), start)
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return oops.Code("PLACEHOLDER_WRITE_FAILED").With("path", path).Wrap(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return oops.Code("PLACEHOLDER_WRITE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}

func saveJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return oops.Code("PLACEHOLDER_WRITE_FAILED").With("path", path).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return oops.Code("PLACEHOLDER_WRITE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}

// Starts are the player spawns written into the generated maps.
type Starts struct {
	Overworld entity.Position
	Venue     entity.Position
}

// Generate writes the tileset, both maps and every sprite sheet the game
// loads into dir, creating it if needed. It returns the files written.
func Generate(dir string, starts Starts, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, oops.Code("PLACEHOLDER_WRITE_FAILED").With("path", dir).Wrap(err)
	}

	images := map[string]image.Image{
		TilesetFile:       Tileset(),
		"hero_stand.png":  CharacterStrip(characterColors["hero"], false),
		"hero_run.png":    CharacterStrip(characterColors["hero"], true),
		"Santa_stand.png": SantaStrip(false),
		"Santa_gift.png":  SantaStrip(true),
		"quest_mark.png":  QuestMarkStrip(),
	}
	for _, name := range sprite.NPCSpriteSets {
		body := characterColors[name]
		images[fmt.Sprintf("%s_stand.png", name)] = CharacterStrip(body, false)
		images[fmt.Sprintf("%s_run.png", name)] = CharacterStrip(body, true)
	}

	var written []string
	for name, img := range images {
		path := filepath.Join(dir, name)
		if err := SavePNG(img, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	maps := map[string]tiledMap{
		OverworldFile: overworldMap(starts.Overworld),
		VenueFile:     venueMap(starts.Venue),
	}
	for name, m := range maps {
		path := filepath.Join(dir, name)
		if err := saveJSON(m, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	logger.Info("placeholders generated", "dir", dir, "files", len(written))
	return written, nil
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
