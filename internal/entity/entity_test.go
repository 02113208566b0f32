package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/christmasbits/internal/quest"
)

var epoch = time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)

func TestDirectionDeltas(t *testing.T) {
	for _, d := range []Direction{DirRight, DirUp, DirLeft, DirDown} {
		dx, dy := d.Delta()
		assert.Equal(t, d, DirectionOf(dx, dy), d.String())
		ox, oy := d.Opposite().Delta()
		assert.Equal(t, -dx, ox)
		assert.Equal(t, -dy, oy)
	}
	assert.Equal(t, Direction(0), DirRight)
	assert.Equal(t, Direction(3), DirDown)
}

func TestSmoothConvergesAndSnaps(t *testing.T) {
	a := NewActor(Position{X: 0, Y: 0})
	a.MoveTo(Position{X: 1, Y: 0}, DirRight, epoch)

	a.Smooth(0.2)
	assert.InDelta(t, 0.2, a.Visual.X, 1e-9)

	for i := 0; i < 100; i++ {
		a.Smooth(0.2)
	}
	assert.Equal(t, 1.0, a.Visual.X)
	assert.Equal(t, 0.0, a.Visual.Y)
}

func TestIsMoving(t *testing.T) {
	a := NewActor(Position{})
	assert.False(t, a.IsMoving(epoch, 150*time.Millisecond))

	a.MoveTo(Position{X: 1}, DirRight, epoch)
	assert.True(t, a.IsMoving(epoch.Add(149*time.Millisecond), 150*time.Millisecond))
	assert.False(t, a.IsMoving(epoch.Add(150*time.Millisecond), 150*time.Millisecond))
}

func TestFrameAtIsWallClockModulo(t *testing.T) {
	base := time.UnixMilli(0)
	assert.Equal(t, 0, FrameAt(base, 100*time.Millisecond, 6))
	assert.Equal(t, 3, FrameAt(base.Add(350*time.Millisecond), 100*time.Millisecond, 6))
	assert.Equal(t, 0, FrameAt(base.Add(600*time.Millisecond), 100*time.Millisecond, 6))
	assert.Equal(t, 0, FrameAt(base, 0, 6))
}

func TestOneShotFrameHoldsLastFrame(t *testing.T) {
	assert.Equal(t, 0, OneShotFrame(epoch, epoch, 200*time.Millisecond, 6))
	assert.Equal(t, 2, OneShotFrame(epoch, epoch.Add(450*time.Millisecond), 200*time.Millisecond, 6))
	assert.Equal(t, 5, OneShotFrame(epoch, epoch.Add(10*time.Second), 200*time.Millisecond, 6))
	assert.Equal(t, 0, OneShotFrame(epoch, epoch.Add(-time.Second), 200*time.Millisecond, 6))
}

func TestTimingFrame(t *testing.T) {
	a := NewActor(Position{})
	now := time.UnixMilli(1000)
	a.MoveTo(Position{X: 1}, DirRight, now)

	frame, running := PlayerTiming.Frame(&a, now.Add(100*time.Millisecond))
	assert.True(t, running)
	assert.Equal(t, 5, frame)

	frame, running = PlayerTiming.Frame(&a, now.Add(400*time.Millisecond))
	assert.False(t, running)
	assert.Equal(t, 1, frame)
}

func TestResolveProfile(t *testing.T) {
	tests := []struct {
		tag       string
		role      Role
		task      quest.Task
		spriteSet string
	}{
		{"aa", RoleQuestGiver, "", "aa"},
		{"decorator", RoleTaskGiver, quest.TaskDecorator, "decorator"},
		{"Roki", RoleTaskGiver, quest.TaskDecorator, "decorator"},
		{"photographer", RoleTaskGiver, quest.TaskPhotographer, "photographer"},
		{"bartender", RoleTaskGiver, quest.TaskBartender, "bartender"},
		{"npc5", RoleEpilogue, "", "npc5"},
		{"santa", RoleEpilogue, "", "npc5"},
		{"extra_4", RoleTalker, "", "extra_4"},
		{"talker", RoleTalker, "", "extra_1"},
		{"man", RoleTalker, "", "extra_1"},
		{"woman", RoleTalker, "", "extra_3"},
		{"snowman", RoleTalker, "", "extra_1"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			p := ResolveProfile(tt.tag)
			assert.Equal(t, tt.role, p.Role)
			assert.Equal(t, tt.task, p.Task)
			assert.Equal(t, tt.spriteSet, p.SpriteSet)
		})
	}
	assert.True(t, ResolveProfile("npc5").Oversized)
	assert.False(t, ResolveProfile("aa").Oversized)
}

func TestRegularNPCBlocksOwnCell(t *testing.T) {
	n := NewNPC("extra_2", "Mike", Position{X: 5, Y: 5})
	assert.True(t, n.Blocks(Position{X: 5, Y: 5}))
	assert.False(t, n.Blocks(Position{X: 5, Y: 4}))
	assert.False(t, n.Blocks(Position{X: 6, Y: 5}))
}

func TestOversizedNPCBlocksRowAbove(t *testing.T) {
	n := NewNPC("npc5", "Santa", Position{X: 11, Y: 8})

	for x := 10; x <= 12; x++ {
		assert.True(t, n.Blocks(Position{X: x, Y: 7}), "x=%d", x)
	}
	assert.False(t, n.Blocks(Position{X: 11, Y: 8}))
	assert.False(t, n.Blocks(Position{X: 9, Y: 7}))
	assert.False(t, n.Blocks(Position{X: 13, Y: 7}))
	assert.False(t, n.Blocks(Position{X: 11, Y: 6}))
}

func TestCanInteractFrom(t *testing.T) {
	n := NewNPC("aa", "Alice", Position{X: 5, Y: 5})
	assert.True(t, n.CanInteractFrom(Position{X: 5, Y: 6}))
	assert.False(t, n.CanInteractFrom(Position{X: 6, Y: 6}))
	assert.False(t, n.CanInteractFrom(Position{X: 5, Y: 5}))

	santa := NewNPC("npc5", "", Position{X: 11, Y: 8})
	assert.True(t, santa.CanInteractFrom(Position{X: 13, Y: 10}))
	assert.True(t, santa.CanInteractFrom(Position{X: 11, Y: 8}))
	assert.False(t, santa.CanInteractFrom(Position{X: 14, Y: 8}))
}

func TestRosterQueries(t *testing.T) {
	alice := NewNPC("aa", "Alice", Position{X: 1, Y: 1})
	bob := NewNPC("photographer", "Bob", Position{X: 4, Y: 1})
	santa := NewNPC("npc5", "Santa", Position{X: 8, Y: 8})
	r := Roster{alice, bob, santa}

	assert.Same(t, alice, r.OccupiedBy(Position{X: 1, Y: 1}, nil))
	assert.Nil(t, r.OccupiedBy(Position{X: 1, Y: 1}, alice))
	assert.True(t, r.Occupied(Position{X: 8, Y: 7}, nil))
	assert.False(t, r.Occupied(Position{X: 8, Y: 8}, nil))

	assert.Same(t, bob, r.Nearby(Position{X: 4, Y: 2}))
	assert.Same(t, santa, r.Nearby(Position{X: 10, Y: 9}))
	assert.Nil(t, r.Nearby(Position{X: 2, Y: 5}))

	assert.Same(t, alice, r.FindRole(RoleQuestGiver))
	assert.Same(t, bob, r.FindTask(quest.TaskPhotographer))
	assert.Nil(t, r.FindTask(quest.TaskBartender))
	assert.Same(t, santa, r.FindType("Santa"))
}

func TestRosterMergeDeduplicatesByType(t *testing.T) {
	r := Roster{NewNPC("npc5", "Santa", Position{X: 11, Y: 8})}
	r = r.Merge(Roster{
		NewNPC("santa", "Other Santa", Position{}),
		NewNPC("extra_1", "Kevin", Position{X: 5, Y: 8}),
		NewNPC("extra_1", "Clone", Position{X: 6, Y: 8}),
	})
	require.Len(t, r, 2)
	assert.Equal(t, "Kevin", r[1].Name)
}

func TestByVisualY(t *testing.T) {
	a := NewNPC("extra_1", "a", Position{X: 0, Y: 5})
	b := NewNPC("extra_2", "b", Position{X: 0, Y: 2})
	c := NewNPC("extra_3", "c", Position{X: 0, Y: 9})
	sorted := Roster{a, b, c}.ByVisualY()
	assert.Equal(t, []string{"b", "a", "c"}, []string{sorted[0].Name, sorted[1].Name, sorted[2].Name})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Kevin", NewNPC("extra_1", "Kevin", Position{}).DisplayName())
	assert.Equal(t, "Roki", NewNPC("decorator", "", Position{}).DisplayName())
	assert.Equal(t, "NPC", NewNPC("extra_1", "", Position{}).DisplayName())
}

func TestNewNPCKeepsAuthoredTag(t *testing.T) {
	n := NewNPC(" Woman ", "", Position{})
	assert.Equal(t, "woman", n.Tag)
	assert.Equal(t, "extra_3", n.Type)

	n = NewNPC("extra_2", "Mike", Position{})
	assert.Equal(t, "extra_2", n.Tag)
	assert.Equal(t, n.Type, n.Tag)
}
