package model

import (
	"errors"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero activity only", func(c *Config) { c.ActivityDuration = 0 }, nil},
		{"all zero phases", func(c *Config) {
			c.ActivityDuration = 0
			c.ShortBreakDuration = 0
			c.LongBreakDuration = 0
		}, ErrEmptyCycle},
		{"zero cadence", func(c *Config) { c.BreaksUntilLong = 0 }, ErrBreakCadence},
		{"negative cadence", func(c *Config) { c.BreaksUntilLong = -2 }, ErrBreakCadence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			if err := config.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.ActivityDuration != 25*time.Minute {
		t.Errorf("ActivityDuration = %v, want 25m", config.ActivityDuration)
	}
	if config.BreaksUntilLong != 4 {
		t.Errorf("BreaksUntilLong = %d, want 4", config.BreaksUntilLong)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestPhaseKindIsBreak(t *testing.T) {
	if PhaseActivity.IsBreak() {
		t.Error("activity should not be a break")
	}
	if !PhaseShortBreak.IsBreak() || !PhaseLongBreak.IsBreak() {
		t.Error("breaks should report IsBreak")
	}
}
