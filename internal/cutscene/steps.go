package cutscene

import (
	"context"
	"time"

	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/movement"
)

// Wait holds the sequence for d.
func Wait(d time.Duration) Step {
	var until time.Time
	return Step{
		Name:  "Wait",
		Begin: func(now time.Time) { until = now.Add(d) },
		Poll:  func(now time.Time) bool { return !now.Before(until) },
	}
}

// Do runs fn once and continues.
func Do(name string, fn func()) Step {
	return Step{
		Name:  name,
		Begin: func(time.Time) { fn() },
	}
}

// Walk drives a path-walk built when the step begins, one iteration per
// interval. The step ends once the walk is done; a walk that starts done
// ends immediately.
func Walk(name string, build func() *movement.PathWalk, interval time.Duration) Step {
	var (
		walk *movement.PathWalk
		next time.Time
	)
	return Step{
		Name: name,
		Begin: func(now time.Time) {
			walk = build()
			next = now
		},
		Poll: func(now time.Time) bool {
			if walk == nil {
				return true
			}
			if now.Before(next) {
				return false
			}
			if walk.Done() {
				return true
			}
			walk.Step(now)
			next = now.Add(interval)
			return false
		},
	}
}

// Dialog is the part of the dialog sequencer a sequence drives.
type Dialog interface {
	Start(frames []dialog.Frame)
	OnClose(fn func())
	IsOpen() bool
}

// ShowDialog opens a dialog with frames produced when the step begins.
func ShowDialog(d Dialog, frames func() []dialog.Frame) Step {
	return Step{
		Name:  "ShowDialog",
		Begin: func(time.Time) { d.Start(frames()) },
	}
}

// AwaitDialog holds the sequence until the dialog closes.
func AwaitDialog(d Dialog) Step {
	closed := false
	return Step{
		Name: "AwaitDialog",
		Begin: func(time.Time) {
			closed = false
			d.OnClose(func() { closed = true })
		},
		Poll: func(time.Time) bool { return closed || !d.IsOpen() },
	}
}

// Say is ShowDialog followed by AwaitDialog.
func Say(d Dialog, frames ...dialog.Frame) []Step {
	return []Step{
		ShowDialog(d, func() []dialog.Frame { return frames }),
		AwaitDialog(d),
	}
}

// Launcher runs an interactive collaborator until it resolves.
type Launcher func(ctx context.Context) (bool, error)

// MinigameCall carries the result of a launched minigame from its
// goroutine back to the sequence.
type MinigameCall struct {
	result chan minigameResult
	done   bool
}

type minigameResult struct {
	success bool
	err     error
}

// LaunchMinigame starts play on its own goroutine bound to the runner's
// context. onLaunch runs first on the calling goroutine.
func LaunchMinigame(r *Runner, name string, play Launcher, call *MinigameCall, onLaunch func()) Step {
	return Step{
		Name: "LaunchMinigame:" + name,
		Begin: func(time.Time) {
			call.result = make(chan minigameResult, 1)
			call.done = false
			if onLaunch != nil {
				onLaunch()
			}
			ctx := r.Context()
			result := call.result
			go func() {
				ok, err := play(ctx)
				result <- minigameResult{success: ok, err: err}
			}()
		},
	}
}

// AwaitMinigame holds the sequence until the launched minigame resolves,
// then hands its outcome to onResult.
func AwaitMinigame(call *MinigameCall, onResult func(success bool, err error)) Step {
	return Step{
		Name: "AwaitMinigame",
		Poll: func(time.Time) bool {
			if call.done {
				return true
			}
			if call.result == nil {
				return false
			}
			select {
			case res := <-call.result:
				call.done = true
				if onResult != nil {
					onResult(res.success, res.err)
				}
				return true
			default:
				return false
			}
		},
	}
}

// Branch computes follow-on steps when it begins and splices them in
// directly after itself.
func Branch(r *Runner, name string, fn func() []Step) Step {
	return Step{
		Name: name,
		Begin: func(time.Time) {
			if steps := fn(); len(steps) > 0 {
				r.Insert(steps...)
			}
		},
	}
}
