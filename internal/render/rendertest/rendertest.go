// Package rendertest provides an in-memory render backend that records
// draw calls, for tests of code written against package render.
package rendertest

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"chosenoffset.com/christmasbits/internal/render"
)

func init() {
	if render.NewGeoM == nil {
		render.NewGeoM = func() render.GeoM { return &GeoM{} }
	}
}

// Op is one recorded draw call.
type Op struct {
	Kind  string // "image", "rect", "stroke", "circle", "text", "fill"
	X, Y  float64
	W, H  float64
	Text  string
	Color color.Color
	// Src names the source image for "image" ops.
	Src string
}

// Recorder implements render.Renderer and collects every call made on images
// it created or that were passed to it.
type Recorder struct {
	mu  sync.Mutex
	ops []Op
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Ops returns a copy of the recorded calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// Texts returns the strings drawn, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops() {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// OfKind returns the recorded calls of a single kind.
func (r *Recorder) OfKind(kind string) []Op {
	var out []Op
	for _, op := range r.Ops() {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// NewImage creates a recording image.
func (r *Recorder) NewImage(width, height int) render.Image {
	return &Image{rec: r, Name: "offscreen", rect: image.Rect(0, 0, width, height)}
}

// Screen creates a named recording image to act as the frame buffer.
func (r *Recorder) Screen(width, height int) *Image {
	return &Image{rec: r, Name: "screen", rect: image.Rect(0, 0, width, height)}
}

// NamedImage creates a recording image with the given name and size.
func (r *Recorder) NamedImage(name string, width, height int) *Image {
	return &Image{rec: r, Name: name, rect: image.Rect(0, 0, width, height)}
}

// FillRect records a filled rectangle.
func (r *Recorder) FillRect(_ render.Image, x, y, width, height float32, clr color.Color) {
	r.record(Op{Kind: "rect", X: float64(x), Y: float64(y), W: float64(width), H: float64(height), Color: clr})
}

// StrokeRect records a rectangle outline.
func (r *Recorder) StrokeRect(_ render.Image, x, y, width, height, _ float32, clr color.Color) {
	r.record(Op{Kind: "stroke", X: float64(x), Y: float64(y), W: float64(width), H: float64(height), Color: clr})
}

// FillCircle records a filled circle.
func (r *Recorder) FillCircle(_ render.Image, x, y, radius float32, clr color.Color) {
	r.record(Op{Kind: "circle", X: float64(x), Y: float64(y), W: float64(radius), H: float64(radius), Color: clr})
}

// DrawText records a text draw.
func (r *Recorder) DrawText(_ render.Image, text string, x, y int, clr color.Color, _ float64) {
	r.record(Op{Kind: "text", X: float64(x), Y: float64(y), Text: text, Color: clr})
}

// MeasureText approximates a 7x16 cell per character.
func (r *Recorder) MeasureText(text string, scale float64) (width, height int) {
	if scale <= 0 {
		scale = 1
	}
	return int(float64(len(text)*7) * scale), int(16 * scale)
}

// Image is a recording render.Image.
type Image struct {
	rec  *Recorder
	Name string
	rect image.Rectangle
}

// Bounds returns the image rectangle.
func (i *Image) Bounds() image.Rectangle { return i.rect }

// Size returns the image dimensions.
func (i *Image) Size() (int, int) { return i.rect.Dx(), i.rect.Dy() }

// SubImage returns a named view of part of the image.
func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{
		rec:  i.rec,
		Name: fmt.Sprintf("%s[%d,%d]", i.Name, r.Min.X, r.Min.Y),
		rect: r.Intersect(i.rect),
	}
}

// Fill records a fill.
func (i *Image) Fill(clr color.Color) {
	if i.rec != nil {
		i.rec.record(Op{Kind: "fill", Color: clr})
	}
}

// Clear is a no-op.
func (i *Image) Clear() {}

// DrawImage records the source name and its translated position.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	if i.rec == nil {
		return
	}
	op := Op{Kind: "image"}
	if s, ok := src.(*Image); ok {
		op.Src = s.Name
		op.W, op.H = float64(s.rect.Dx()), float64(s.rect.Dy())
	}
	if opts != nil {
		if g, ok := opts.GeoM.(*GeoM); ok {
			op.X, op.Y = g.TX, g.TY
		}
	}
	i.rec.record(op)
}

// Dispose is a no-op.
func (i *Image) Dispose() {}

// GeoM tracks translation and scale only.
type GeoM struct {
	TX, TY float64
	SX, SY float64
}

// Translate shifts the matrix.
func (g *GeoM) Translate(tx, ty float64) {
	g.TX += tx
	g.TY += ty
}

// Scale scales the matrix.
func (g *GeoM) Scale(sx, sy float64) {
	if g.SX == 0 {
		g.SX, g.SY = 1, 1
	}
	g.SX *= sx
	g.SY *= sy
	g.TX *= sx
	g.TY *= sy
}

// Reset returns to identity.
func (g *GeoM) Reset() {
	*g = GeoM{}
}

// Loader is a render.ResourceLoader serving named images from a map.
type Loader struct {
	Images map[string]image.Point
	rec    *Recorder
}

// NewLoader creates a loader whose images record into rec.
func NewLoader(rec *Recorder, images map[string]image.Point) *Loader {
	return &Loader{Images: images, rec: rec}
}

// LoadImage returns a recording image when path is known.
func (l *Loader) LoadImage(path string) (render.Image, error) {
	size, ok := l.Images[path]
	if !ok {
		return nil, fmt.Errorf("image not found: %s", path)
	}
	return l.rec.NamedImage(path, size.X, size.Y), nil
}

// Input is a scripted render.InputManager. Keys listed in Just are reported
// as just pressed until Clear is called.
type Input struct {
	Held      map[render.Key]bool
	Just      map[render.Key]bool
	JustMouse map[render.MouseButton]bool
	CursorX   int
	CursorY   int
}

// NewInput creates an idle input.
func NewInput() *Input {
	return &Input{
		Held:      map[render.Key]bool{},
		Just:      map[render.Key]bool{},
		JustMouse: map[render.MouseButton]bool{},
	}
}

// Press marks key as just pressed.
func (in *Input) Press(key render.Key) {
	in.Just[key] = true
}

// Click marks the left button as just pressed.
func (in *Input) Click() {
	in.JustMouse[render.MouseButtonLeft] = true
}

// Clear releases every just-pressed key and button.
func (in *Input) Clear() {
	in.Just = map[render.Key]bool{}
	in.JustMouse = map[render.MouseButton]bool{}
}

// IsKeyPressed reports held keys.
func (in *Input) IsKeyPressed(key render.Key) bool { return in.Held[key] || in.Just[key] }

// IsKeyJustPressed reports keys pressed this frame.
func (in *Input) IsKeyJustPressed(key render.Key) bool { return in.Just[key] }

// GetCursorPosition returns the scripted cursor.
func (in *Input) GetCursorPosition() (int, int) { return in.CursorX, in.CursorY }

// IsMouseButtonPressed reports just-pressed buttons as held.
func (in *Input) IsMouseButtonPressed(b render.MouseButton) bool { return in.JustMouse[b] }

// IsMouseButtonJustPressed reports buttons pressed this frame.
func (in *Input) IsMouseButtonJustPressed(b render.MouseButton) bool { return in.JustMouse[b] }
