// Package minigame defines the contracts of the interactive collaborators
// the story launches, and simple overlay implementations of them.
//
// A collaborator's blocking call runs on its own goroutine while the game
// loop keeps feeding it input through Update and drawing it through Draw.
package minigame

import (
	"context"
	"sync"
	"time"

	"github.com/samber/oops"

	"chosenoffset.com/christmasbits/internal/render"
)

// Game is a task minigame. Play blocks until the player finishes or gives
// up. Anything but a true result with a nil error counts as failure.
type Game interface {
	Play(ctx context.Context) (bool, error)
}

// GiftPicker blocks until the player has picked a gift and its reveal has
// been shown.
type GiftPicker interface {
	Pick(ctx context.Context) (Gift, error)
}

// Overlay is the on-screen half of a collaborator.
type Overlay interface {
	Active() bool
	Update(in render.InputManager, now time.Time)
	Draw(screen render.Image)
}

// session hands one result from the game loop to a blocked caller.
type session[T any] struct {
	mu sync.Mutex
	ch chan T
}

func (s *session[T]) open(name string) (<-chan T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		return nil, oops.Code("MINIGAME_BUSY").With("minigame", name).Errorf("%s is already running", name)
	}
	s.ch = make(chan T, 1)
	return s.ch, nil
}

// resolve delivers v to the waiting caller and ends the session.
func (s *session[T]) resolve(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return false
	}
	s.ch <- v
	s.ch = nil
	return true
}

func (s *session[T]) abandon() {
	s.mu.Lock()
	s.ch = nil
	s.mu.Unlock()
}

func (s *session[T]) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch != nil
}

// wait blocks for the session result or cancellation.
func wait[T any](ctx context.Context, s *session[T], ch <-chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		s.abandon()
		var zero T
		return zero, ctx.Err()
	}
}
