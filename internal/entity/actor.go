// Package entity models the player and NPCs: grid positions, smoothed
// visual positions, facing and animation timing.
package entity

import (
	"math"
	"time"
)

// Direction is a facing. The values index rows of a sprite sheet.
type Direction int

const (
	DirRight Direction = iota
	DirUp
	DirLeft
	DirDown
)

// Delta returns the unit grid step for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirRight:
		return 1, 0
	case DirUp:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirDown:
		return 0, 1
	}
	return 0, 0
}

// Opposite returns the reverse facing.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	}
	return "unknown"
}

// DirectionOf returns the facing for a unit step.
func DirectionOf(dx, dy int) Direction {
	switch {
	case dx > 0:
		return DirRight
	case dx < 0:
		return DirLeft
	case dy < 0:
		return DirUp
	default:
		return DirDown
	}
}

// Position is a logical grid coordinate.
type Position struct {
	X, Y int
}

// Add returns p shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns the taxicab distance to q.
func (p Position) Manhattan(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Chebyshev returns the king-move distance to q.
func (p Position) Chebyshev(q Position) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// Euclidean returns the straight-line distance to q.
func (p Position) Euclidean(q Position) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Vec is a continuous coordinate in tile units.
type Vec struct {
	X, Y float64
}

// snapEpsilon is how close a visual coordinate must be to its target
// before it snaps exactly.
const snapEpsilon = 0.001

// Actor is the state shared by the player and NPCs. Game logic reads Pos
// only; Visual exists for rendering.
type Actor struct {
	Pos      Position
	Visual   Vec
	Facing   Direction
	LastMove time.Time
}

// NewActor places an actor at p facing down.
func NewActor(p Position) Actor {
	return Actor{Pos: p, Visual: Vec{X: float64(p.X), Y: float64(p.Y)}, Facing: DirDown}
}

// MoveTo commits a step to p.
func (a *Actor) MoveTo(p Position, facing Direction, now time.Time) {
	a.Pos = p
	a.Facing = facing
	a.LastMove = now
}

// Teleport moves the actor and its visual position without animating.
func (a *Actor) Teleport(p Position) {
	a.Pos = p
	a.SnapVisual()
}

// SnapVisual sets the visual position to the logical one.
func (a *Actor) SnapVisual() {
	a.Visual = Vec{X: float64(a.Pos.X), Y: float64(a.Pos.Y)}
}

// IsMoving reports whether the actor stepped within threshold of now.
func (a *Actor) IsMoving(now time.Time, threshold time.Duration) bool {
	if a.LastMove.IsZero() {
		return false
	}
	return now.Sub(a.LastMove) < threshold
}

// Smooth moves the visual position a fraction of the way to the logical one.
func (a *Actor) Smooth(factor float64) {
	a.Visual.X = approach(a.Visual.X, float64(a.Pos.X), factor)
	a.Visual.Y = approach(a.Visual.Y, float64(a.Pos.Y), factor)
}

func approach(cur, target, factor float64) float64 {
	cur += (target - cur) * factor
	if math.Abs(target-cur) < snapEpsilon {
		return target
	}
	return cur
}
