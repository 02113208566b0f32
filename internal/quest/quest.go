// Package quest tracks the party-preparation quest: whether it has been
// accepted and which of the fixed tasks are done.
package quest

// Task identifies one of the fixed quest tasks.
type Task string

// The fixed task set.
const (
	TaskDecorator    Task = "decorator"
	TaskPhotographer Task = "photographer"
	TaskBartender    Task = "bartender"
)

// Tasks lists every task in display order.
var Tasks = []Task{TaskDecorator, TaskPhotographer, TaskBartender}

// ParseTask maps an NPC type tag to its task.
func ParseTask(s string) (Task, bool) {
	switch Task(s) {
	case TaskDecorator, TaskPhotographer, TaskBartender:
		return Task(s), true
	}
	return "", false
}

// Label returns the task's HUD caption.
func (t Task) Label() string {
	switch t {
	case TaskDecorator:
		return "HELP ROKI DECORATE"
	case TaskPhotographer:
		return "FIND BOB FOR PHOTOS"
	case TaskBartender:
		return "HELP SAMUEL MAKE DRINKS"
	}
	return string(t)
}

// State is the quest progress for one session. Completion only moves forward.
type State struct {
	started bool
	done    map[Task]bool
}

// NewState creates an unstarted quest with every task incomplete.
func NewState() *State {
	done := make(map[Task]bool, len(Tasks))
	for _, t := range Tasks {
		done[t] = false
	}
	return &State{done: done}
}

// Start accepts the quest. Calling it again has no effect.
func (s *State) Start() {
	s.started = true
}

// Started reports whether the quest has been accepted.
func (s *State) Started() bool {
	return s.started
}

// MarkCompleted flags t as done. Unknown tasks are ignored.
func (s *State) MarkCompleted(t Task) {
	if _, ok := s.done[t]; !ok {
		return
	}
	s.done[t] = true
}

// IsCompleted reports whether t is done.
func (s *State) IsCompleted(t Task) bool {
	return s.done[t]
}

// AllCompleted reports whether every task in the fixed set is done.
func (s *State) AllCompleted() bool {
	for _, t := range Tasks {
		if !s.done[t] {
			return false
		}
	}
	return true
}

// Remaining returns the tasks still open, in display order.
func (s *State) Remaining() []Task {
	var out []Task
	for _, t := range Tasks {
		if !s.done[t] {
			out = append(out, t)
		}
	}
	return out
}
