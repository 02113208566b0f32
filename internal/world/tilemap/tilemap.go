// Package tilemap holds the resolved, read-only map model shared by the
// collision resolver and the render pipeline.
package tilemap

import (
	"image"

	"chosenoffset.com/christmasbits/internal/render"
)

// GIDMask strips the Tiled flip/rotation flags from a raw tile id.
const GIDMask uint32 = 0x1FFFFFFF

// LayerKind distinguishes grid layers from free-form object layers.
type LayerKind int

const (
	TileLayer LayerKind = iota
	ObjectLayer
)

// Object is a pixel-space rectangle on an object layer.
type Object struct {
	Name   string
	Type   string
	X, Y   float64
	Width  float64
	Height float64
	// GID is set for objects that place a tile graphic; their Y is the
	// bottom edge of the rectangle.
	GID uint32
}

// Bounds returns the object's rectangle with a top-left origin.
func (o Object) Bounds() (x, y, w, h float64) {
	y = o.Y
	if o.GID != 0 {
		y -= o.Height
	}
	return o.X, y, o.Width, o.Height
}

// Layer is one plane of the map.
type Layer struct {
	Name    string
	Kind    LayerKind
	Visible bool
	// Width is the layer's own row stride; zero means the map width.
	Width   int
	Data    []uint32
	Objects []Object
}

// At returns the masked tile id at (x, y), or 0 when the cell is absent.
func (l *Layer) At(x, y, mapWidth int) uint32 {
	stride := l.Width
	if stride <= 0 {
		stride = mapWidth
	}
	idx := y*stride + x
	if idx < 0 || idx >= len(l.Data) {
		return 0
	}
	return l.Data[idx] & GIDMask
}

// Tileset is a tile atlas image addressed by global tile ids starting at FirstGID.
type Tileset struct {
	Name       string
	FirstGID   uint32
	TileWidth  int
	TileHeight int
	ImageWidth int
	// Image is nil when the atlas could not be loaded.
	Image render.Image
}

// Columns returns the number of tiles per atlas row.
func (ts *Tileset) Columns() int {
	if ts.TileWidth <= 0 {
		return 0
	}
	return ts.ImageWidth / ts.TileWidth
}

// SourceRect returns the atlas rectangle for gid.
func (ts *Tileset) SourceRect(gid uint32) (image.Rectangle, bool) {
	cols := ts.Columns()
	if cols <= 0 || gid < ts.FirstGID {
		return image.Rectangle{}, false
	}
	local := int(gid - ts.FirstGID)
	sx := (local % cols) * ts.TileWidth
	sy := (local / cols) * ts.TileHeight
	return image.Rect(sx, sy, sx+ts.TileWidth, sy+ts.TileHeight), true
}

// Spawn is an object-layer entry converted to tile coordinates.
type Spawn struct {
	Name string
	Type string
	X, Y int
}

// Map is a fully resolved tile map.
type Map struct {
	Width    int
	Height   int
	TileSize int
	Layers   []Layer
	// Tilesets are ordered by ascending FirstGID.
	Tilesets []Tileset
	Spawns   []Spawn
	// Legacy is a single flat grid used by maps without layers.
	Legacy []uint32
}

// InBounds reports whether (x, y) is inside the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// TilesetFor returns the tileset with the largest FirstGID not above gid.
func (m *Map) TilesetFor(gid uint32) *Tileset {
	var found *Tileset
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		if ts.FirstGID <= gid && (found == nil || ts.FirstGID > found.FirstGID) {
			found = ts
		}
	}
	return found
}

// PixelSize returns the map dimensions in pixels.
func (m *Map) PixelSize() (w, h int) {
	return m.Width * m.TileSize, m.Height * m.TileSize
}

// Stub returns the 10x10 all-walkable map used when loading fails.
func Stub() *Map {
	const size = 10
	return &Map{
		Width:    size,
		Height:   size,
		TileSize: 32,
		Layers: []Layer{{
			Name:    "floor",
			Kind:    TileLayer,
			Visible: true,
			Data:    make([]uint32, size*size),
		}},
	}
}
