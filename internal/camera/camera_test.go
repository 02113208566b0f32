package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewportFor(t *testing.T) {
	assert.Equal(t, Viewport{W: 20, H: 15}, ViewportFor(640, 480, 32))
	assert.Equal(t, Viewport{W: 21, H: 15}, ViewportFor(650, 480, 32))
	assert.Equal(t, Viewport{}, ViewportFor(640, 480, 0))
}

func TestFollowInitializesCentered(t *testing.T) {
	c := New(6, 4)
	c.Follow(50, 40, Viewport{W: 20, H: 15}, 100, 100)
	assert.Equal(t, 40.0, c.X)
	assert.Equal(t, 33.0, c.Y)
	assert.True(t, c.Initialized())
}

func TestFollowClampsToSmallMargin(t *testing.T) {
	vp := Viewport{W: 10, H: 8}
	for x := 0; x < 12; x++ {
		c := New(6, 4)
		c.Follow(float64(x), 4, vp, 12, 8)
		assert.GreaterOrEqual(t, c.X, 0.0, "x=%d", x)
		assert.LessOrEqual(t, c.X, 2.0, "x=%d", x)
		assert.Equal(t, 0.0, c.Y)
	}

	c := New(6, 4)
	c.Follow(11, 4, vp, 12, 8)
	assert.Equal(t, 2.0, c.X)
	for i := 0; i < 10; i++ {
		c.Follow(11, 4, vp, 12, 8)
		assert.Equal(t, 2.0, c.X)
	}
}

func TestFollowDeadZone(t *testing.T) {
	vp := Viewport{W: 20, H: 15}
	c := New(6, 4)
	c.Follow(50, 50, vp, 100, 100)
	start := c.X

	// Inside the dead-zone the camera holds still.
	c.Follow(52, 50, vp, 100, 100)
	assert.Equal(t, start, c.X)

	// Past the right pad it scrolls so the target sits on the pad edge.
	c.Follow(56, 50, vp, 100, 100)
	assert.Equal(t, 56.0-(20-6), c.X)

	// Past the left pad it scrolls back.
	c.Follow(40, 50, vp, 100, 100)
	assert.Equal(t, 40.0-6, c.X)
}

func TestLockedKeepsCentered(t *testing.T) {
	vp := Viewport{W: 20, H: 14}
	c := New(6, 4)
	c.Locked = true
	c.Follow(50, 50, vp, 100, 100)
	c.Follow(51, 53, vp, 100, 100)
	assert.Equal(t, 41.0, c.X)
	assert.Equal(t, 46.0, c.Y)
}

func TestResetRecenters(t *testing.T) {
	vp := Viewport{W: 10, H: 10}
	c := New(2, 2)
	c.Follow(20, 20, vp, 40, 40)
	c.Reset()
	assert.False(t, c.Initialized())
	c.Follow(30, 30, vp, 40, 40)
	assert.Equal(t, 25.0, c.X)
}

func TestOffsetCentersSmallMaps(t *testing.T) {
	c := New(6, 4)
	c.Follow(5, 5, Viewport{W: 20, H: 15}, 10, 10)
	ox, oy := c.Offset(640, 480, 10, 10, 32)
	assert.Equal(t, (640-320)/2, ox)
	assert.Equal(t, (480-320)/2, oy)
}

func TestOffsetScrolls(t *testing.T) {
	c := &Camera{X: 2.5, Y: 1, initialized: true}
	ox, oy := c.Offset(320, 256, 12, 8, 32)
	assert.Equal(t, -80, ox)
	assert.Equal(t, -32, oy)
}

func TestVisibleRange(t *testing.T) {
	c := &Camera{X: 2.5, Y: 0}
	x0, y0, x1, y1 := c.VisibleRange(Viewport{W: 10, H: 8}, 12, 8)
	assert.Equal(t, []int{2, 0, 12, 8}, []int{x0, y0, x1, y1})
}
