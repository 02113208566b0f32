// Package dialog plays linear, blocking text sequences and resolves the
// scripts NPCs speak.
package dialog

// Frame is one line of dialog.
type Frame struct {
	Speaker string
	Text    string
	Avatar  string
}

// Sequencer shows one dialog at a time. Closing it fires the pending
// close callback exactly once.
type Sequencer struct {
	frames  []Frame
	index   int
	open    bool
	onClose func()
}

// Start opens a sequence at its first frame. Empty input is ignored.
func (s *Sequencer) Start(frames []Frame) {
	if len(frames) == 0 {
		return
	}
	s.frames = append([]Frame(nil), frames...)
	s.index = 0
	s.open = true
}

// Say opens a single-frame sequence.
func (s *Sequencer) Say(speaker, text string) {
	s.Start([]Frame{{Speaker: speaker, Text: text}})
}

// Advance moves to the next frame, closing after the last one.
func (s *Sequencer) Advance() {
	if !s.open {
		return
	}
	if s.index < len(s.frames)-1 {
		s.index++
		return
	}
	s.Close()
}

// Close ends the sequence and fires the pending close callback, if any.
func (s *Sequencer) Close() {
	s.open = false
	s.frames = nil
	s.index = 0
	if cb := s.onClose; cb != nil {
		s.onClose = nil
		cb()
	}
}

// OnClose registers the callback for the next Close, replacing any
// callback that has not fired yet.
func (s *Sequencer) OnClose(fn func()) {
	s.onClose = fn
}

// IsOpen reports whether a sequence is showing.
func (s *Sequencer) IsOpen() bool {
	return s.open
}

// Current returns the frame on screen.
func (s *Sequencer) Current() (Frame, bool) {
	if !s.open {
		return Frame{}, false
	}
	return s.frames[s.index], true
}

// Index returns the position of the current frame.
func (s *Sequencer) Index() int {
	return s.index
}

// Len returns the number of frames in the open sequence.
func (s *Sequencer) Len() int {
	return len(s.frames)
}

// HasNext reports whether Advance will show another frame.
func (s *Sequencer) HasNext() bool {
	return s.open && s.index < len(s.frames)-1
}
