package engine

import (
	"time"

	"focustrack/internal/model"
)

// Task identifies what the user is focusing on.
type Task struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	GoalID string `json:"goalId" yaml:"goal_id"`
}

// Phase is the externally visible position of the state machine.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseRunning       Phase = "running"
	PhasePaused        Phase = "paused"
	PhaseTransitioning Phase = "transitioning"
)

// State is the timer's full mutable state. Only Timer mutates it.
//
// IsActive implies IntervalStart != nil. AccumulatedMs moves only at pause
// and completion boundaries; live elapsed time is derived with ElapsedMs.
type State struct {
	IsActive                 bool
	AccumulatedMs            int64
	IntervalStart            *time.Time
	ActiveTask               *Task
	Mode                     model.Mode
	PomodoroCycle            model.Cycle
	CompletedWorkCyclesInSet int
	SequenceID               string
	TotalFocusMs             int64
	PendingCycle             *model.Cycle
}

func idleState() State {
	return State{
		Mode:          model.ModeStopwatch,
		PomodoroCycle: model.CycleWork,
	}
}

func (s State) Phase() Phase {
	switch {
	case s.ActiveTask == nil:
		return PhaseIdle
	case s.PendingCycle != nil:
		return PhaseTransitioning
	case s.IsActive:
		return PhaseRunning
	default:
		return PhasePaused
	}
}

func (s State) clone() State {
	out := s
	if s.IntervalStart != nil {
		start := *s.IntervalStart
		out.IntervalStart = &start
	}
	if s.ActiveTask != nil {
		task := *s.ActiveTask
		out.ActiveTask = &task
	}
	if s.PendingCycle != nil {
		next := *s.PendingCycle
		out.PendingCycle = &next
	}
	return out
}
