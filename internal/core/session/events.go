package session

import (
	"time"

	"pomodorino/internal/core/model"
)

// State represents the current timer mode.
type State string

const (
	StateRunning      State = "running"
	StatePaused       State = "paused"
	StateAwaitingSkip State = "awaiting_skip"
)

// Session is an immutable snapshot of the live timer record. Observers
// only ever receive copies; the Timer owns the mutable original.
type Session struct {
	Phase         model.Phase
	PhaseIndex    uint64
	Elapsed       time.Duration
	State         State
	SkipRequested bool
}

// Remaining returns the time left in the current phase.
func (session Session) Remaining() time.Duration {
	remaining := session.Phase.Duration - session.Elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventPhaseEnded  EventType = "phase_ended"
	EventSkipPrompt  EventType = "skip_prompt"
	EventProgress    EventType = "progress"
)

// Event represents a timer update for observers. Every event carries a
// session snapshot taken at emission time.
type Event struct {
	Type    EventType
	Session Session

	// From and To are set on EventPhaseEnded.
	From model.PhaseKind
	To   model.PhaseKind

	// Fraction is set on EventProgress, in [0, 1].
	Fraction float64

	At time.Time
}
