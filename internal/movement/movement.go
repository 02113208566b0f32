// Package movement moves actors one grid cell at a time, either from
// player input or along scripted walks.
package movement

import (
	"log/slog"
	"time"

	"chosenoffset.com/christmasbits/internal/entity"
)

// Rules validates a candidate cell.
type Rules struct {
	// Walkable answers the map collision question.
	Walkable func(x, y int) bool
	// Blocked reports cells held by other actors. Optional.
	Blocked func(p entity.Position) bool
}

// CanEnter reports whether p passes both checks.
func (r Rules) CanEnter(p entity.Position) bool {
	if r.Walkable == nil || !r.Walkable(p.X, p.Y) {
		return false
	}
	if r.Blocked != nil && r.Blocked(p) {
		return false
	}
	return true
}

// TryStep moves a by one cell in dir if the rules allow it. A rejected step
// leaves the actor untouched, facing included.
func TryStep(a *entity.Actor, dir entity.Direction, rules Rules, now time.Time) bool {
	dx, dy := dir.Delta()
	next := a.Pos.Add(dx, dy)
	if !rules.CanEnter(next) {
		return false
	}
	a.MoveTo(next, dir, now)
	return true
}

// Direct paces keyboard movement. A fresh press steps at once; a held key
// steps again every Repeat.
type Direct struct {
	Repeat time.Duration

	next time.Time
}

// Step handles one tick of direction input. fresh reports a key that went
// down this tick.
func (d *Direct) Step(a *entity.Actor, dir entity.Direction, fresh bool, rules Rules, now time.Time) bool {
	if !fresh && now.Before(d.next) {
		return false
	}
	d.next = now.Add(d.Repeat)
	return TryStep(a, dir, rules, now)
}

// Reset forgets the repeat timer.
func (d *Direct) Reset() {
	d.next = time.Time{}
}

// AxisOrder selects which axis a path-walk tries first.
type AxisOrder int

const (
	// XFirst closes the horizontal gap first.
	XFirst AxisOrder = iota
	// YFirst closes the vertical gap first.
	YFirst
)

func (o AxisOrder) String() string {
	if o == YFirst {
		return "y-first"
	}
	return "x-first"
}

// PathWalk is a scripted walk advanced one iteration per Step. It ends when
// the actor arrives or the iteration ceiling is reached, whichever is first.
type PathWalk struct {
	Name   string
	Actor  *entity.Actor
	Target func() entity.Position
	// Arrived decides completion; nil means standing on Target.
	Arrived  func(pos, target entity.Position) bool
	Order    AxisOrder
	Rules    Rules
	MaxSteps int
	Logger   *slog.Logger

	steps int
	moves int
	stuck int
}

// WalkTo builds a walk to a fixed cell.
func WalkTo(name string, a *entity.Actor, target entity.Position, order AxisOrder, rules Rules, maxSteps int) *PathWalk {
	return &PathWalk{
		Name:     name,
		Actor:    a,
		Target:   func() entity.Position { return target },
		Order:    order,
		Rules:    rules,
		MaxSteps: maxSteps,
	}
}

// Adjacent is an Arrived func for walks that stop next to their target.
func Adjacent(pos, target entity.Position) bool {
	return pos.Manhattan(target) <= 1
}

// HasArrived reports whether the walk reached its goal.
func (w *PathWalk) HasArrived() bool {
	target := w.Target()
	if w.Arrived != nil {
		return w.Arrived(w.Actor.Pos, target)
	}
	return w.Actor.Pos == target
}

// Exhausted reports whether the iteration ceiling was hit.
func (w *PathWalk) Exhausted() bool {
	return w.steps >= w.MaxSteps
}

// Done reports whether no more iterations will run.
func (w *PathWalk) Done() bool {
	return w.HasArrived() || w.Exhausted()
}

// Steps returns the iterations run so far.
func (w *PathWalk) Steps() int { return w.steps }

// Moves returns the successful cell changes so far.
func (w *PathWalk) Moves() int { return w.moves }

// StuckCount returns the iterations in which no move was possible.
func (w *PathWalk) StuckCount() int { return w.stuck }

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (w *PathWalk) tryDelta(dx, dy int, now time.Time) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	return TryStep(w.Actor, entity.DirectionOf(dx, dy), w.Rules, now)
}

// Step runs one iteration: the primary axis, then the secondary, then a
// side-step across the blocked axis. It reports whether the actor moved.
func (w *PathWalk) Step(now time.Time) bool {
	if w.Done() {
		return false
	}
	w.steps++

	target := w.Target()
	dx := sign(target.X - w.Actor.Pos.X)
	dy := sign(target.Y - w.Actor.Pos.Y)

	// Primary and secondary axis deltas, expressed as (x, y) pairs.
	first, second := [2]int{dx, 0}, [2]int{0, dy}
	if w.Order == YFirst {
		first, second = second, first
	}

	moved := w.tryDelta(first[0], first[1], now) || w.tryDelta(second[0], second[1], now)
	if !moved {
		moved = w.sideStep(dx, dy, first, now)
	}

	if moved {
		w.moves++
	} else {
		w.stuck++
		w.logger().Warn("path walk stuck",
			"walk", w.Name, "x", w.Actor.Pos.X, "y", w.Actor.Pos.Y,
			"target_x", target.X, "target_y", target.Y, "step", w.steps)
	}
	return moved
}

// sideStep steps across the blocked axis, toward the target when the other
// axis still has distance to cover, else in the positive direction, then the
// opposite way.
func (w *PathWalk) sideStep(dx, dy int, first [2]int, now time.Time) bool {
	blockedX := first[0] != 0 || (first[1] == 0 && dx != 0)
	blockedY := !blockedX && dy != 0
	switch {
	case blockedX:
		side := dy
		if side == 0 {
			side = 1
		}
		return w.tryDelta(0, side, now) || w.tryDelta(0, -side, now)
	case blockedY:
		side := dx
		if side == 0 {
			side = 1
		}
		return w.tryDelta(side, 0, now) || w.tryDelta(-side, 0, now)
	}
	return false
}

func (w *PathWalk) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// Run drives the walk to completion without pacing and returns the number
// of iterations. now is sampled once per iteration.
func (w *PathWalk) Run(now func() time.Time) int {
	for !w.Done() {
		w.Step(now())
	}
	return w.steps
}
