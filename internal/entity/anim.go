package entity

import "time"

// FramesPerStrip is the number of frames in each directional sprite strip.
const FramesPerStrip = 6

// FrameAt returns the cyclic frame for now. Every actor using the same
// period animates in phase.
func FrameAt(now time.Time, period time.Duration, frames int) int {
	if period <= 0 || frames <= 0 {
		return 0
	}
	return int((now.UnixMilli() / period.Milliseconds()) % int64(frames))
}

// OneShotFrame returns the frame of a non-looping animation started at start,
// holding on the last frame once finished.
func OneShotFrame(start, now time.Time, period time.Duration, frames int) int {
	if period <= 0 || frames <= 0 || now.Before(start) {
		return 0
	}
	f := int(now.Sub(start) / period)
	if f >= frames {
		return frames - 1
	}
	return f
}

// Timing holds per-state animation periods.
type Timing struct {
	RunThreshold time.Duration
	RunPeriod    time.Duration
	StandPeriod  time.Duration
}

// PlayerTiming is the animation timing of the player character.
var PlayerTiming = Timing{
	RunThreshold: 150 * time.Millisecond,
	RunPeriod:    100 * time.Millisecond,
	StandPeriod:  200 * time.Millisecond,
}

// NPCTiming is the animation timing of regular NPCs.
var NPCTiming = Timing{
	RunThreshold: 200 * time.Millisecond,
	RunPeriod:    100 * time.Millisecond,
	StandPeriod:  250 * time.Millisecond,
}

// Frame returns the actor's current frame and whether it is running.
func (t Timing) Frame(a *Actor, now time.Time) (frame int, running bool) {
	running = a.IsMoving(now, t.RunThreshold)
	period := t.StandPeriod
	if running {
		period = t.RunPeriod
	}
	return FrameAt(now, period, FramesPerStrip), running
}
