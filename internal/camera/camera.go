// Package camera keeps the player inside a dead-zone of the viewport and
// converts world tiles to screen pixels.
package camera

import "math"

// Viewport is the visible area in whole tiles.
type Viewport struct {
	W, H int
}

// ViewportFor returns the number of tiles, rounded up, needed to cover a
// canvas.
func ViewportFor(canvasW, canvasH, tileSize int) Viewport {
	if tileSize <= 0 {
		return Viewport{}
	}
	return Viewport{
		W: int(math.Ceil(float64(canvasW) / float64(tileSize))),
		H: int(math.Ceil(float64(canvasH) / float64(tileSize))),
	}
}

// Camera is the top-left world tile of the view.
type Camera struct {
	X, Y float64
	// PadX and PadY are the dead-zone widths in tiles.
	PadX, PadY float64
	// Locked keeps the target centered.
	Locked bool

	initialized bool
}

// New creates a camera with the given dead-zone padding.
func New(padX, padY float64) *Camera {
	return &Camera{PadX: padX, PadY: padY}
}

// Reset forgets the position; the next Follow re-centers on its target.
func (c *Camera) Reset() {
	c.initialized = false
	c.X, c.Y = 0, 0
}

// Initialized reports whether the camera has been placed since the last Reset.
func (c *Camera) Initialized() bool {
	return c.initialized
}

// Follow nudges the camera so (tx, ty) stays inside the dead-zone, then
// clamps it to the map.
func (c *Camera) Follow(tx, ty float64, vp Viewport, mapW, mapH int) {
	vw, vh := float64(vp.W), float64(vp.H)
	if !c.initialized {
		c.X = tx - math.Floor(vw/2)
		c.Y = ty - math.Floor(vh/2)
		c.initialized = true
	}

	padX, padY := c.PadX, c.PadY
	if c.Locked {
		padX = math.Floor(vw / 2)
		padY = math.Floor(vh / 2)
	}

	if tx > c.X+vw-padX {
		c.X = tx - (vw - padX)
	}
	if tx < c.X+padX {
		c.X = tx - padX
	}
	if ty > c.Y+vh-padY {
		c.Y = ty - (vh - padY)
	}
	if ty < c.Y+padY {
		c.Y = ty - padY
	}

	c.X = clamp(c.X, 0, math.Max(0, float64(mapW)-vw))
	c.Y = clamp(c.Y, 0, math.Max(0, float64(mapH)-vh))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Offset returns the pixel translation from world to screen. Maps smaller
// than the canvas are centered.
func (c *Camera) Offset(canvasW, canvasH, mapW, mapH, tileSize int) (ox, oy int) {
	var centerX, centerY int
	if mapPxW := mapW * tileSize; mapPxW < canvasW {
		centerX = (canvasW - mapPxW) / 2
	}
	if mapPxH := mapH * tileSize; mapPxH < canvasH {
		centerY = (canvasH - mapPxH) / 2
	}
	ts := float64(tileSize)
	ox = int(math.Floor(-c.X*ts + float64(centerX)))
	oy = int(math.Floor(-c.Y*ts + float64(centerY)))
	return ox, oy
}

// VisibleRange returns the half-open tile range worth drawing.
func (c *Camera) VisibleRange(vp Viewport, mapW, mapH int) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(c.X))
	y0 = int(math.Floor(c.Y))
	x1 = min(mapW, x0+vp.W+1)
	y1 = min(mapH, y0+vp.H+1)
	return x0, y0, x1, y1
}
