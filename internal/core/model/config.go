package model

import (
	"errors"
	"time"
)

// PhaseKind identifies a segment of the pomodoro cycle.
type PhaseKind string

const (
	PhaseActivity   PhaseKind = "activity"
	PhaseShortBreak PhaseKind = "short_break"
	PhaseLongBreak  PhaseKind = "long_break"
)

// IsBreak reports whether the phase is a rest segment.
func (kind PhaseKind) IsBreak() bool {
	return kind == PhaseShortBreak || kind == PhaseLongBreak
}

// Phase is a single timed segment of the cycle. Value type, never
// mutated after creation.
type Phase struct {
	Kind     PhaseKind
	Duration time.Duration
}

// ErrEmptyCycle indicates a configuration whose phases are all zero-length.
var ErrEmptyCycle = errors.New("every phase in the cycle has zero duration")

// ErrBreakCadence indicates a non-positive long-break cadence.
var ErrBreakCadence = errors.New("breaks_until_long_break must be positive")

// Config contains runtime settings for the timer.
type Config struct {
	ActivityDuration   time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	BreaksUntilLong    int

	SkipPromptEnabled bool
	WarningLead       time.Duration

	LockOnBreak bool
	AudioPath   string
}

// DefaultConfig returns the classic pomodoro settings.
func DefaultConfig() Config {
	return Config{
		ActivityDuration:   25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		BreaksUntilLong:    4,
		SkipPromptEnabled:  true,
		WarningLead:        30 * time.Second,
		LockOnBreak:        false,
	}
}

// Validate rejects configurations the timer cannot run on. Individual
// zero-length phases are legal (they transition on the next tick);
// an all-zero cycle would never leave the tick handler.
func (config Config) Validate() error {
	if config.BreaksUntilLong <= 0 {
		return ErrBreakCadence
	}
	if config.ActivityDuration <= 0 && config.ShortBreakDuration <= 0 && config.LongBreakDuration <= 0 {
		return ErrEmptyCycle
	}
	return nil
}
