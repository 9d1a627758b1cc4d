package engine

import (
	"errors"
	"fmt"
	"time"

	"focustrack/internal/model"
)

var ErrInvalidConfig = errors.New("invalid timer configuration")

// Config holds interval lengths for Pomodoro mode.
type Config struct {
	WorkDuration         time.Duration
	ShortBreakDuration   time.Duration
	LongBreakDuration    time.Duration
	CyclesUntilLongBreak int
}

func DefaultConfig() Config {
	return Config{
		WorkDuration:         model.DefaultWorkDurationSeconds * time.Second,
		ShortBreakDuration:   model.DefaultShortBreakDurationSeconds * time.Second,
		LongBreakDuration:    model.DefaultLongBreakDurationSeconds * time.Second,
		CyclesUntilLongBreak: model.DefaultCyclesUntilLongBreak,
	}
}

// Validate rejects configurations that would make the sequencer or the
// completion check meaningless. It runs before any timer is built.
func (c Config) Validate() error {
	if c.CyclesUntilLongBreak < 1 {
		return fmt.Errorf("%w: cycles until long break must be at least 1, got %d", ErrInvalidConfig, c.CyclesUntilLongBreak)
	}
	if c.WorkDuration <= 0 || c.ShortBreakDuration <= 0 || c.LongBreakDuration <= 0 {
		return fmt.Errorf("%w: interval durations must be positive", ErrInvalidConfig)
	}
	return nil
}

// IntervalDuration returns the length of an interval. The second result is
// false when the interval is open-ended (stopwatch mode).
func (c Config) IntervalDuration(mode model.Mode, cycle model.Cycle) (time.Duration, bool) {
	if mode != model.ModePomodoro {
		return 0, false
	}
	switch cycle {
	case model.CycleShortBreak:
		return c.ShortBreakDuration, true
	case model.CycleLongBreak:
		return c.LongBreakDuration, true
	default:
		return c.WorkDuration, true
	}
}
