package schedule

import (
	"testing"
	"time"

	"pomodorino/internal/core/model"
)

func newTestSchedule(t *testing.T, mutate func(*model.Config)) *Schedule {
	t.Helper()
	config := model.DefaultConfig()
	if mutate != nil {
		mutate(&config)
	}
	sched, err := New(config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return sched
}

func TestPhaseAtDefaultCadence(t *testing.T) {
	sched := newTestSchedule(t, nil)

	tests := []struct {
		index uint64
		want  model.PhaseKind
	}{
		{0, model.PhaseActivity},
		{1, model.PhaseShortBreak},
		{2, model.PhaseActivity},
		{3, model.PhaseShortBreak},
		{5, model.PhaseShortBreak},
		{7, model.PhaseLongBreak},  // 4th break
		{9, model.PhaseShortBreak}, // cycle restarts after the long break
		{15, model.PhaseLongBreak}, // 8th break
		{100, model.PhaseActivity},
		{1001, model.PhaseShortBreak},
	}

	for _, tt := range tests {
		if got := sched.PhaseAt(tt.index).Kind; got != tt.want {
			t.Errorf("PhaseAt(%d).Kind = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestPhaseAtDurations(t *testing.T) {
	sched := newTestSchedule(t, nil)

	if d := sched.PhaseAt(0).Duration; d != 25*time.Minute {
		t.Errorf("activity duration = %v, want 25m", d)
	}
	if d := sched.PhaseAt(1).Duration; d != 5*time.Minute {
		t.Errorf("short break duration = %v, want 5m", d)
	}
	if d := sched.PhaseAt(7).Duration; d != 15*time.Minute {
		t.Errorf("long break duration = %v, want 15m", d)
	}
}

func TestPhaseAtCustomCadence(t *testing.T) {
	everyBreakLong := newTestSchedule(t, func(c *model.Config) { c.BreaksUntilLong = 1 })
	for _, index := range []uint64{1, 3, 5, 7} {
		if got := everyBreakLong.PhaseAt(index).Kind; got != model.PhaseLongBreak {
			t.Errorf("cadence 1: PhaseAt(%d).Kind = %v, want long break", index, got)
		}
	}

	everySecond := newTestSchedule(t, func(c *model.Config) { c.BreaksUntilLong = 2 })
	if got := everySecond.PhaseAt(1).Kind; got != model.PhaseShortBreak {
		t.Errorf("cadence 2: PhaseAt(1).Kind = %v, want short break", got)
	}
	if got := everySecond.PhaseAt(3).Kind; got != model.PhaseLongBreak {
		t.Errorf("cadence 2: PhaseAt(3).Kind = %v, want long break", got)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	config := model.DefaultConfig()
	config.BreaksUntilLong = 0
	if _, err := New(config); err == nil {
		t.Error("New() should reject an invalid config")
	}
}
