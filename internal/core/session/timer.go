package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pomodorino/internal/core/model"
	"pomodorino/internal/core/schedule"
)

// ErrInvalidTransition indicates a skip decision was resolved while none
// was pending. Callers log and move on; control operations must never
// crash the process.
var ErrInvalidTransition = errors.New("no skip decision pending")

// Timer is the sole authority over the live Session. Every mutation of
// timer state goes through its methods; other components observe through
// event snapshots.
type Timer struct {
	mu       sync.Mutex
	schedule *schedule.Schedule
	config   model.Config
	session  Session
	events   []chan Event
	log      zerolog.Logger
}

// New creates a Timer positioned at the start of the cycle.
func New(sched *schedule.Schedule, config model.Config, logger zerolog.Logger) *Timer {
	timer := &Timer{
		schedule: sched,
		config:   config,
		log:      logger.With().Str("component", "timer").Logger(),
	}
	timer.session = Session{
		Phase:      sched.PhaseAt(0),
		PhaseIndex: 0,
		State:      StateRunning,
	}
	return timer
}

// Subscribe registers a new observer channel. Events are delivered
// best-effort: a full channel drops the event rather than blocking the
// timer.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	timer.events = append(timer.events, ch)
	timer.mu.Unlock()
	return ch
}

// Close shuts down all observer channels.
func (timer *Timer) Close() {
	timer.mu.Lock()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start announces the initial session so observers can prime themselves
// before the first tick.
func (timer *Timer) Start() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.emitLocked(Event{
		Type:    EventStateChange,
		Session: timer.session,
		At:      time.Now(),
	})
}

// Snapshot returns a copy of the current session.
func (timer *Timer) Snapshot() Session {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.session
}

// Tick advances elapsed time by delta. No-op unless running. When the
// phase saturates, either the skip prompt opens (activity end with
// prompting enabled) or the cycle advances to the next phase.
func (timer *Timer) Tick(delta time.Duration) {
	if delta <= 0 {
		return
	}

	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.session.State != StateRunning {
		return
	}

	timer.session.Elapsed += delta
	if timer.session.Elapsed < timer.session.Phase.Duration {
		timer.emitProgressLocked()
		return
	}
	// Clamp at the boundary; the surplus of an oversized delta is
	// discarded, not rolled into the next phase.
	timer.session.Elapsed = timer.session.Phase.Duration

	if timer.session.Phase.Kind == model.PhaseActivity && timer.config.SkipPromptEnabled {
		timer.session.State = StateAwaitingSkip
		timer.log.Debug().Uint64("phase_index", timer.session.PhaseIndex).Msg("awaiting skip decision")
		timer.emitLocked(Event{
			Type:    EventSkipPrompt,
			Session: timer.session,
			At:      time.Now(),
		})
		return
	}

	timer.advanceLocked(1)
}

// Pause freezes the timer. Idempotent; a pending skip decision already
// freezes time, so pausing there is a no-op too.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.session.State != StateRunning {
		return
	}
	timer.session.State = StatePaused
	timer.log.Info().Msg("paused")
	timer.emitLocked(Event{
		Type:    EventStateChange,
		Session: timer.session,
		At:      time.Now(),
	})
}

// Resume unfreezes a paused timer. Idempotent.
func (timer *Timer) Resume() {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.session.State != StatePaused {
		return
	}
	timer.session.State = StateRunning
	timer.log.Info().Msg("resumed")
	timer.emitLocked(Event{
		Type:    EventStateChange,
		Session: timer.session,
		At:      time.Now(),
	})
}

// TogglePause flips between running and paused. This is the operation
// bound to the pause control signal, so the sender never needs to know
// the current state.
func (timer *Timer) TogglePause() {
	timer.mu.Lock()
	state := timer.session.State
	timer.mu.Unlock()

	if state == StatePaused {
		timer.Resume()
	} else {
		timer.Pause()
	}
}

// Reset discards all progress and restarts the cycle from the first
// activity. Valid from any state.
func (timer *Timer) Reset() {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	timer.session = Session{
		Phase:      timer.schedule.PhaseAt(0),
		PhaseIndex: 0,
		State:      StateRunning,
	}
	timer.log.Info().Msg("reset")
	timer.emitLocked(Event{
		Type:    EventStateChange,
		Session: timer.session,
		At:      time.Now(),
	})
}

// ResolveSkip answers a pending skip prompt. Skipping advances past the
// upcoming break straight to the next activity; declining enters the
// break normally. Returns ErrInvalidTransition when no prompt is open.
func (timer *Timer) ResolveSkip(skip bool) error {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.session.State != StateAwaitingSkip {
		return ErrInvalidTransition
	}
	timer.session.SkipRequested = skip
	if skip {
		timer.advanceLocked(2)
	} else {
		timer.advanceLocked(1)
	}
	return nil
}

// Progress returns elapsed over duration in [0, 1]. A zero-length phase
// reports 0 rather than dividing by zero.
func (timer *Timer) Progress() float64 {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return progressLocked(timer.session)
}

func progressLocked(session Session) float64 {
	if session.Phase.Duration <= 0 {
		return 0
	}
	fraction := float64(session.Elapsed) / float64(session.Phase.Duration)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

func (timer *Timer) advanceLocked(steps uint64) {
	from := timer.session.Phase.Kind
	timer.session.PhaseIndex += steps
	timer.session.Phase = timer.schedule.PhaseAt(timer.session.PhaseIndex)
	timer.session.Elapsed = 0
	timer.session.State = StateRunning
	timer.session.SkipRequested = false

	timer.log.Info().
		Str("from", string(from)).
		Str("to", string(timer.session.Phase.Kind)).
		Uint64("phase_index", timer.session.PhaseIndex).
		Msg("phase ended")
	timer.emitLocked(Event{
		Type:    EventPhaseEnded,
		Session: timer.session,
		From:    from,
		To:      timer.session.Phase.Kind,
		At:      time.Now(),
	})
}

func (timer *Timer) emitProgressLocked() {
	timer.emitLocked(Event{
		Type:     EventProgress,
		Session:  timer.session,
		Fraction: progressLocked(timer.session),
		At:       time.Now(),
	})
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}
