package model

import "time"

// Mode selects how the timer measures an interval.
type Mode string

const (
	ModeStopwatch Mode = "stopwatch"
	ModePomodoro  Mode = "pomodoro"
)

func (m Mode) Valid() bool {
	return m == ModeStopwatch || m == ModePomodoro
}

// Cycle is the kind of interval inside a Pomodoro sequence.
type Cycle string

const (
	CycleWork       Cycle = "work"
	CycleShortBreak Cycle = "short_break"
	CycleLongBreak  Cycle = "long_break"
)

func (c Cycle) Valid() bool {
	return c == CycleWork || c == CycleShortBreak || c == CycleLongBreak
}

func (c Cycle) IsBreak() bool {
	return c == CycleShortBreak || c == CycleLongBreak
}

// Vibe is the qualitative rating attached when a session is summarized.
type Vibe string

const (
	VibeFlow     Vibe = "flow"
	VibeNeutral  Vibe = "neutral"
	VibeStruggle Vibe = "struggle"
)

func (v Vibe) Valid() bool {
	return v == VibeFlow || v == VibeNeutral || v == VibeStruggle
}

const (
	DefaultWorkDurationSeconds       = 25 * 60
	DefaultShortBreakDurationSeconds = 5 * 60
	DefaultLongBreakDurationSeconds  = 15 * 60
	DefaultCyclesUntilLongBreak      = 4
)

type FocusSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationSeconds int       `json:"durationSeconds"`
	TaskID          string    `json:"taskId"`
	GoalID          string    `json:"goalId"`
	Mode            Mode      `json:"mode"`
	PomodoroCycle   *Cycle    `json:"pomodoroCycle,omitempty"`
	SequenceID      *string   `json:"sequenceId,omitempty"`
	Vibe            *Vibe     `json:"vibe,omitempty"`
	Note            *string   `json:"note,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
