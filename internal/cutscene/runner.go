// Package cutscene runs scripted sequences as explicit lists of named
// steps, advanced once per game tick.
package cutscene

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"chosenoffset.com/christmasbits/internal/clock"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

func newRunID(now time.Time) ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy)
}

// Step is one named unit of a sequence. Begin runs once when the step
// becomes current; Poll runs every tick until it reports done.
type Step struct {
	Name  string
	Begin func(now time.Time)
	Poll  func(now time.Time) bool
}

// Sequence is an ordered list of steps.
type Sequence struct {
	Name string
	// Blocking sequences suppress player movement and interaction.
	Blocking bool
	Steps    []Step
}

type run struct {
	id      ulid.ULID
	seq     Sequence
	steps   []Step
	idx     int
	begun   bool
	started time.Time
}

// Runner advances every active sequence from the game's Update.
type Runner struct {
	clock  clock.Clock
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	runs   []*run
	// current is the run whose step is executing, for Insert.
	current *run
}

// NewRunner creates a runner. Background work launched by steps is bound
// to ctx and to Close.
func NewRunner(ctx context.Context, c clock.Clock, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Runner{clock: c, logger: logger, ctx: ctx, cancel: cancel}
}

// Context is cancelled when the runner closes.
func (r *Runner) Context() context.Context {
	return r.ctx
}

// Close cancels background work and drops every active sequence.
func (r *Runner) Close() {
	r.cancel()
	r.runs = nil
}

// Play starts seq and returns its run id.
func (r *Runner) Play(seq Sequence) ulid.ULID {
	now := r.clock.Now()
	rn := &run{
		id:      newRunID(now),
		seq:     seq,
		steps:   append([]Step(nil), seq.Steps...),
		started: now,
	}
	r.runs = append(r.runs, rn)
	r.logger.Debug("sequence started", "sequence", seq.Name, "run_id", rn.id.String(), "steps", len(rn.steps))
	return rn.id
}

// Insert queues steps directly after the step currently executing. It is
// meant to be called from inside a step's Begin or Poll.
func (r *Runner) Insert(steps ...Step) {
	rn := r.current
	if rn == nil {
		return
	}
	at := rn.idx + 1
	rest := append([]Step(nil), rn.steps[at:]...)
	rn.steps = append(append(rn.steps[:at], steps...), rest...)
}

// Update advances each sequence as far as it can this tick. Steps that
// finish immediately chain within the same tick.
func (r *Runner) Update() {
	if len(r.runs) == 0 {
		return
	}
	now := r.clock.Now()
	active := r.runs[:0]
	// Sequences started during this tick are appended to r.runs and picked
	// up on the next one.
	pending := r.runs
	r.runs = nil
	for _, rn := range pending {
		if r.advance(rn, now) {
			active = append(active, rn)
		}
	}
	if r.ctx.Err() != nil {
		r.runs = nil
		return
	}
	r.runs = append(active, r.runs...)
}

func (r *Runner) advance(rn *run, now time.Time) bool {
	r.current = rn
	defer func() { r.current = nil }()

	for rn.idx < len(rn.steps) {
		if r.ctx.Err() != nil {
			return false
		}
		step := rn.steps[rn.idx]
		if !rn.begun {
			rn.begun = true
			r.logger.Debug("sequence step", "sequence", rn.seq.Name, "run_id", rn.id.String(), "step", step.Name)
			if step.Begin != nil {
				step.Begin(now)
			}
		}
		if step.Poll != nil && !step.Poll(now) {
			return true
		}
		rn.idx++
		rn.begun = false
	}

	r.logger.Debug("sequence finished",
		"sequence", rn.seq.Name, "run_id", rn.id.String(), "elapsed", now.Sub(rn.started))
	return false
}

// Blocking reports whether any active sequence suppresses player input.
func (r *Runner) Blocking() bool {
	for _, rn := range r.runs {
		if rn.seq.Blocking {
			return true
		}
	}
	return false
}

// Idle reports whether no sequence is active.
func (r *Runner) Idle() bool {
	return len(r.runs) == 0
}

// Running reports whether a sequence with the given name is active.
func (r *Runner) Running(name string) bool {
	for _, rn := range r.runs {
		if rn.seq.Name == name {
			return true
		}
	}
	return false
}

// CurrentStep returns the name of the step a sequence is on.
func (r *Runner) CurrentStep(name string) (string, bool) {
	for _, rn := range r.runs {
		if rn.seq.Name == name && rn.idx < len(rn.steps) {
			return rn.steps[rn.idx].Name, true
		}
	}
	return "", false
}
