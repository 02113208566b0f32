package collision

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Default name patterns. Names are lower-cased before matching.
var (
	DefaultCollisionLayers = []string{"*collision*", "block"}
	DefaultSurfaceLayers   = []string{
		"*floor*", "*black*", "*ground*", "*shadow*", "*decoration*", "*rug*", "*carpet*",
	}
	DefaultPassableObjects = []string{"*walkable*"}
)

// Patterns configures how layer and object names are classified.
type Patterns struct {
	CollisionLayers []string `koanf:"collision_layers"`
	SurfaceLayers   []string `koanf:"surface_layers"`
	PassableObjects []string `koanf:"passable_objects"`
}

// DefaultPatterns returns the built-in classification.
func DefaultPatterns() Patterns {
	return Patterns{
		CollisionLayers: append([]string(nil), DefaultCollisionLayers...),
		SurfaceLayers:   append([]string(nil), DefaultSurfaceLayers...),
		PassableObjects: append([]string(nil), DefaultPassableObjects...),
	}
}

// Classifier decides what a layer or object name means for movement.
type Classifier struct {
	collision []glob.Glob
	surface   []glob.Glob
	passable  []glob.Glob
}

// NewClassifier compiles the given patterns.
func NewClassifier(p Patterns) (*Classifier, error) {
	collision, err := compileAll("collision_layers", p.CollisionLayers)
	if err != nil {
		return nil, err
	}
	surface, err := compileAll("surface_layers", p.SurfaceLayers)
	if err != nil {
		return nil, err
	}
	passable, err := compileAll("passable_objects", p.PassableObjects)
	if err != nil {
		return nil, err
	}
	return &Classifier{collision: collision, surface: surface, passable: passable}, nil
}

// DefaultClassifier returns a classifier over the built-in patterns.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return c
}

func compileAll(field string, patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, oops.Code("PATTERN_INVALID").With("field", field).With("pattern", p).Wrap(err)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	name = strings.ToLower(name)
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// IsCollisionLayer reports whether a layer is a hand-painted collision mask.
func (c *Classifier) IsCollisionLayer(name string) bool {
	return matchAny(c.collision, name)
}

// IsSurfaceLayer reports whether a tile layer is floor-like and never blocks.
func (c *Classifier) IsSurfaceLayer(name string) bool {
	return matchAny(c.surface, name)
}

// IsPassableObject reports whether an object is explicitly walk-through.
func (c *Classifier) IsPassableObject(name string) bool {
	return matchAny(c.passable, name)
}
