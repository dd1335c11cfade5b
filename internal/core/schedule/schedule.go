package schedule

import (
	"pomodorino/internal/core/model"
)

// Schedule maps a position in the infinite pomodoro cycle to a phase.
// It is pure policy: no state, no side effects, constant-time lookups.
type Schedule struct {
	config model.Config
}

// New creates a Schedule from a validated configuration.
func New(config model.Config) (*Schedule, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Schedule{config: config}, nil
}

// PhaseAt returns the phase at the given cycle position. Even positions
// are activities; odd positions are breaks, with every Nth break long.
func (schedule *Schedule) PhaseAt(index uint64) model.Phase {
	if index%2 == 0 {
		return model.Phase{
			Kind:     model.PhaseActivity,
			Duration: schedule.config.ActivityDuration,
		}
	}

	breakNumber := (index + 1) / 2
	if breakNumber%uint64(schedule.config.BreaksUntilLong) == 0 {
		return model.Phase{
			Kind:     model.PhaseLongBreak,
			Duration: schedule.config.LongBreakDuration,
		}
	}
	return model.Phase{
		Kind:     model.PhaseShortBreak,
		Duration: schedule.config.ShortBreakDuration,
	}
}
