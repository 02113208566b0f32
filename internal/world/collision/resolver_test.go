package collision

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

const (
	testW = 6
	testH = 5
)

func grid(cells map[[2]int]uint32) []uint32 {
	data := make([]uint32, testW*testH)
	for pos, v := range cells {
		data[pos[1]*testW+pos[0]] = v
	}
	return data
}

func tileLayer(name string, cells map[[2]int]uint32) tilemap.Layer {
	return tilemap.Layer{Name: name, Kind: tilemap.TileLayer, Visible: true, Data: grid(cells)}
}

func newMap(layers ...tilemap.Layer) *tilemap.Map {
	return &tilemap.Map{Width: testW, Height: testH, TileSize: 32, Layers: layers}
}

func TestOutOfBoundsIsBlocked(t *testing.T) {
	r := NewResolver(nil, nil)
	m := newMap(tileLayer("Floor", nil))

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {testW, 0}, {0, testH}} {
		assert.False(t, r.IsWalkable(m, p[0], p[1]), "%v", p)
	}
}

func TestCollisionLayerOverridesEverything(t *testing.T) {
	r := NewResolver(nil, nil)
	passable := tilemap.Layer{
		Name: "markers",
		Kind: tilemap.ObjectLayer,
		Objects: []tilemap.Object{
			{Name: "walkable bridge", X: 0, Y: 0, Width: 32 * testW, Height: 32 * testH},
		},
	}

	for _, name := range []string{"Collision", "collisions", "Wall Collision", "block", "BLOCK"} {
		t.Run(name, func(t *testing.T) {
			m := newMap(
				tileLayer("Floor", map[[2]int]uint32{{2, 2}: 5}),
				tileLayer(name, map[[2]int]uint32{{2, 2}: 1}),
				passable,
			)
			assert.False(t, r.IsWalkable(m, 2, 2))
			assert.True(t, r.IsWalkable(m, 3, 2))
		})
	}
}

func TestCollisionLayerNames(t *testing.T) {
	c := DefaultClassifier()
	assert.True(t, c.IsCollisionLayer("Collision"))
	assert.True(t, c.IsCollisionLayer("npc collisions"))
	assert.True(t, c.IsCollisionLayer("Block"))
	assert.False(t, c.IsCollisionLayer("blockers"))
	assert.False(t, c.IsCollisionLayer("Walls"))
}

func TestEmptyCellsAreWalkable(t *testing.T) {
	r := NewResolver(nil, nil)
	m := newMap(
		tileLayer("Floor", nil),
		tileLayer("Walls", nil),
		tileLayer("Furniture", nil),
		tileLayer("Collision", nil),
	)
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			assert.True(t, r.IsWalkable(m, x, y), "(%d,%d)", x, y)
		}
	}
}

func TestSurfaceLayersNeverBlock(t *testing.T) {
	r := NewResolver(nil, nil)
	for _, name := range []string{"Floor", "floor2", "Black", "Ground", "Shadow", "Decoration", "Red Rug", "carpet"} {
		t.Run(name, func(t *testing.T) {
			m := newMap(tileLayer(name, map[[2]int]uint32{{1, 1}: 9}))
			assert.True(t, r.IsWalkable(m, 1, 1))
		})
	}
}

func TestObstacleLayersBlock(t *testing.T) {
	r := NewResolver(nil, nil)
	for _, name := range []string{"Walls", "wall front", "Table", "chair"} {
		t.Run(name, func(t *testing.T) {
			m := newMap(tileLayer(name, map[[2]int]uint32{{1, 1}: 9}))
			assert.False(t, r.IsWalkable(m, 1, 1))
			assert.True(t, r.IsWalkable(m, 2, 1))
		})
	}
}

func TestInvisibleObstacleLayerStillBlocks(t *testing.T) {
	r := NewResolver(nil, nil)
	l := tileLayer("Walls", map[[2]int]uint32{{1, 1}: 9})
	l.Visible = false
	assert.False(t, r.IsWalkable(newMap(l), 1, 1))
}

func TestFlipFlagsDoNotHideTiles(t *testing.T) {
	r := NewResolver(nil, nil)
	m := newMap(tileLayer("Walls", map[[2]int]uint32{{1, 1}: 0x80000000 | 12}))
	assert.False(t, r.IsWalkable(m, 1, 1))
}

func TestObjectObstacles(t *testing.T) {
	r := NewResolver(nil, nil)
	objects := tilemap.Layer{
		Name: "Objects",
		Kind: tilemap.ObjectLayer,
		Objects: []tilemap.Object{
			// Rectangle covering tiles (1,1)-(2,1).
			{Name: "sofa", X: 32, Y: 32, Width: 64, Height: 32},
			// Tile object anchored bottom-left at y=128: occupies row 3.
			{Name: "tree", X: 128, Y: 128, Width: 32, Height: 32, GID: 40},
			{Name: "Walkable Rug", X: 0, Y: 128, Width: 64, Height: 32},
			{Name: "spawn", X: 16, Y: 16},
		},
	}
	m := newMap(tileLayer("Floor", nil), objects)

	tests := []struct {
		x, y int
		want bool
	}{
		{1, 1, false},
		{2, 1, false},
		{3, 1, true},
		{4, 3, false},
		{4, 4, true},
		{0, 4, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.IsWalkable(m, tt.x, tt.y), "(%d,%d)", tt.x, tt.y)
	}
}

func TestTileBlockWinsOverWalkableObject(t *testing.T) {
	r := NewResolver(nil, nil)
	m := newMap(
		tileLayer("Walls", map[[2]int]uint32{{2, 2}: 3}),
		tilemap.Layer{
			Name:    "Objects",
			Kind:    tilemap.ObjectLayer,
			Objects: []tilemap.Object{{Name: "walkable", X: 64, Y: 64, Width: 32, Height: 32}},
		},
	)
	assert.False(t, r.IsWalkable(m, 2, 2))
}

func TestLegacyFlatGrid(t *testing.T) {
	r := NewResolver(nil, nil)
	m := &tilemap.Map{Width: 3, Height: 1, TileSize: 32, Legacy: []uint32{0, 1, 2}}
	assert.True(t, r.IsWalkable(m, 0, 0))
	assert.True(t, r.IsWalkable(m, 1, 0))
	assert.False(t, r.IsWalkable(m, 2, 0))

	empty := &tilemap.Map{Width: 3, Height: 1, TileSize: 32}
	assert.True(t, r.IsWalkable(empty, 2, 0))
}

func TestNilMapIsBlocked(t *testing.T) {
	r := NewResolver(nil, nil)
	assert.False(t, r.IsWalkable(nil, 0, 0))
}

func TestHasSurface(t *testing.T) {
	r := NewResolver(nil, nil)
	m := newMap(
		tileLayer("Floor", map[[2]int]uint32{{1, 1}: 2}),
		tileLayer("Walls", map[[2]int]uint32{{2, 2}: 2}),
	)
	assert.True(t, r.HasSurface(m, 1, 1))
	assert.False(t, r.HasSurface(m, 2, 2))
	assert.False(t, r.HasSurface(m, 0, 0))
}

func TestCustomPatterns(t *testing.T) {
	c, err := NewClassifier(Patterns{
		CollisionLayers: []string{"solid"},
		SurfaceLayers:   []string{"grass*"},
		PassableObjects: []string{"door*"},
	})
	require.NoError(t, err)

	assert.True(t, c.IsCollisionLayer("Solid"))
	assert.False(t, c.IsCollisionLayer("collision"))
	assert.True(t, c.IsSurfaceLayer("Grass 2"))
	assert.True(t, c.IsPassableObject("Door_A"))
}

func TestInvalidPattern(t *testing.T) {
	_, err := NewClassifier(Patterns{SurfaceLayers: []string{"[unclosed"}})
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "PATTERN_INVALID", oopsErr.Code())
}

func TestEvaluationPanicIsBlocked(t *testing.T) {
	m := newMap(tileLayer("Floor", nil), tileLayer("Walls", nil))

	tests := []struct {
		name string
		r    *Resolver
	}{
		{"missing classifier", &Resolver{Logger: NewResolver(nil, nil).Logger}},
		{"zero value", &Resolver{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, tt.r.IsWalkable(m, 1, 1))
			})
		})
	}
}
