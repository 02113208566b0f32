// Package collision answers whether a grid cell of a tile map can be occupied.
package collision

import (
	"log/slog"

	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

// Resolver evaluates walkability over a map's heterogeneous layers.
type Resolver struct {
	Classifier *Classifier
	Logger     *slog.Logger
}

// NewResolver creates a resolver. A nil classifier uses the defaults.
func NewResolver(c *Classifier, logger *slog.Logger) *Resolver {
	if c == nil {
		c = DefaultClassifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Classifier: c, Logger: logger}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// IsWalkable reports whether an actor may stand on (x, y). Evaluation
// failures are treated as blocked.
func (r *Resolver) IsWalkable(m *tilemap.Map, x, y int) (ok bool) {
	if m == nil || !m.InBounds(x, y) {
		return false
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger().Error("walkability check failed", "x", x, "y", y, "panic", rec)
			ok = false
		}
	}()

	if len(m.Layers) == 0 {
		return legacyWalkable(m, x, y)
	}

	// A hand-painted collision cell overrides everything else.
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.Kind == tilemap.TileLayer && r.Classifier.IsCollisionLayer(l.Name) && l.At(x, y, m.Width) != 0 {
			return false
		}
	}

	ts := float64(m.TileSize)
	cellX, cellY := float64(x)*ts, float64(y)*ts

	for i := range m.Layers {
		l := &m.Layers[i]
		switch l.Kind {
		case tilemap.ObjectLayer:
			for _, obj := range l.Objects {
				if r.Classifier.IsPassableObject(obj.Name) {
					continue
				}
				ox, oy, ow, oh := obj.Bounds()
				if ow <= 0 || oh <= 0 {
					// Point and polyline markers carry no area.
					continue
				}
				if cellX < ox+ow && cellX+ts > ox && cellY < oy+oh && cellY+ts > oy {
					return false
				}
			}
		case tilemap.TileLayer:
			if r.Classifier.IsSurfaceLayer(l.Name) {
				continue
			}
			if l.At(x, y, m.Width) != 0 {
				return false
			}
		}
	}
	return true
}

// legacyWalkable handles maps that carry a single flat grid: 0 and 1 are
// open floor, anything else is wall.
func legacyWalkable(m *tilemap.Map, x, y int) bool {
	if len(m.Legacy) == 0 {
		return true
	}
	idx := y*m.Width + x
	if idx >= len(m.Legacy) {
		return true
	}
	gid := m.Legacy[idx]
	return gid == 0 || gid == 1
}

// HasSurface reports whether any surface layer paints (x, y). Used to pick
// relocation targets that are inside the playable area.
func (r *Resolver) HasSurface(m *tilemap.Map, x, y int) bool {
	if m == nil || !m.InBounds(x, y) {
		return false
	}
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.Kind == tilemap.TileLayer && r.Classifier.IsSurfaceLayer(l.Name) && l.At(x, y, m.Width) != 0 {
			return true
		}
	}
	return false
}
