package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"focustrack/internal/model"
)

const (
	// SnapshotVersion changes whenever the snapshot layout does. Older
	// snapshots are rejected rather than migrated.
	SnapshotVersion = 1
	// StorageKey names the persisted snapshot. It carries the version so a
	// layout change also moves the storage location.
	StorageKey = "focustrack.timer.v1"
)

var (
	ErrSnapshotVersion = errors.New("timer snapshot version mismatch")
	ErrSnapshotCorrupt = errors.New("timer snapshot is corrupt")
)

// Snapshot is the flat persisted form of State.
type Snapshot struct {
	Version                  int        `json:"version" yaml:"version"`
	IsActive                 bool       `json:"isActive" yaml:"is_active"`
	AccumulatedMs            int64      `json:"accumulatedMs" yaml:"accumulated_ms"`
	IntervalStart            *time.Time `json:"intervalStart,omitempty" yaml:"interval_start,omitempty"`
	TaskID                   string     `json:"taskId,omitempty" yaml:"task_id,omitempty"`
	TaskTitle                string     `json:"taskTitle,omitempty" yaml:"task_title,omitempty"`
	GoalID                   string     `json:"goalId,omitempty" yaml:"goal_id,omitempty"`
	Mode                     string     `json:"mode" yaml:"mode"`
	PomodoroCycle            string     `json:"pomodoroCycle" yaml:"pomodoro_cycle"`
	CompletedWorkCyclesInSet int        `json:"completedWorkCyclesInSet" yaml:"completed_work_cycles_in_set"`
	SequenceID               string     `json:"sequenceId,omitempty" yaml:"sequence_id,omitempty"`
	TotalFocusMs             int64      `json:"totalFocusMs" yaml:"total_focus_ms"`
	PendingCycle             string     `json:"pendingCycle,omitempty" yaml:"pending_cycle,omitempty"`
}

// Snapshot captures the current state for persistence.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshotOf(t.state)
}

// Restore replaces the timer state with a persisted snapshot. A snapshot
// from another version, or one missing required fields, leaves the timer
// idle and returns the reason.
func (t *Timer) Restore(snapshot Snapshot) error {
	state, err := snapshot.toState()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.state = idleState()
		t.observer.Observe(context.Background(), Event{
			Name: "snapshot_rejected",
			Err:  err,
			At:   t.clock.Now(),
		})
		return err
	}
	t.state = state
	return nil
}

func snapshotOf(s State) Snapshot {
	out := Snapshot{
		Version:                  SnapshotVersion,
		IsActive:                 s.IsActive,
		AccumulatedMs:            s.AccumulatedMs,
		Mode:                     string(s.Mode),
		PomodoroCycle:            string(s.PomodoroCycle),
		CompletedWorkCyclesInSet: s.CompletedWorkCyclesInSet,
		SequenceID:               s.SequenceID,
		TotalFocusMs:             s.TotalFocusMs,
	}
	if s.IntervalStart != nil {
		start := *s.IntervalStart
		out.IntervalStart = &start
	}
	if s.ActiveTask != nil {
		out.TaskID = s.ActiveTask.ID
		out.TaskTitle = s.ActiveTask.Title
		out.GoalID = s.ActiveTask.GoalID
	}
	if s.PendingCycle != nil {
		out.PendingCycle = string(*s.PendingCycle)
	}
	return out
}

func (s Snapshot) toState() (State, error) {
	if s.Version != SnapshotVersion {
		return State{}, fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersion, s.Version, SnapshotVersion)
	}

	mode := model.Mode(s.Mode)
	if !mode.Valid() {
		return State{}, fmt.Errorf("%w: unknown mode %q", ErrSnapshotCorrupt, s.Mode)
	}
	cycle := model.Cycle(s.PomodoroCycle)
	if !cycle.Valid() {
		return State{}, fmt.Errorf("%w: unknown cycle %q", ErrSnapshotCorrupt, s.PomodoroCycle)
	}
	if s.IsActive && s.IntervalStart == nil {
		return State{}, fmt.Errorf("%w: active interval without a start instant", ErrSnapshotCorrupt)
	}
	if s.AccumulatedMs < 0 || s.TotalFocusMs < 0 || s.CompletedWorkCyclesInSet < 0 {
		return State{}, fmt.Errorf("%w: negative counters", ErrSnapshotCorrupt)
	}

	state := State{
		IsActive:                 s.IsActive,
		AccumulatedMs:            s.AccumulatedMs,
		Mode:                     mode,
		PomodoroCycle:            cycle,
		CompletedWorkCyclesInSet: s.CompletedWorkCyclesInSet,
		SequenceID:               s.SequenceID,
		TotalFocusMs:             s.TotalFocusMs,
	}

	if s.TaskID == "" {
		if s.IsActive || s.AccumulatedMs > 0 || s.PendingCycle != "" {
			return State{}, fmt.Errorf("%w: session state without a task", ErrSnapshotCorrupt)
		}
		return idleState(), nil
	}
	state.ActiveTask = &Task{ID: s.TaskID, Title: s.TaskTitle, GoalID: s.GoalID}

	if mode == model.ModePomodoro && s.SequenceID == "" {
		return State{}, fmt.Errorf("%w: pomodoro session without a sequence id", ErrSnapshotCorrupt)
	}
	if s.IntervalStart != nil {
		if !s.IsActive {
			return State{}, fmt.Errorf("%w: paused interval with a start instant", ErrSnapshotCorrupt)
		}
		start := *s.IntervalStart
		state.IntervalStart = &start
	}
	if s.PendingCycle != "" {
		next := model.Cycle(s.PendingCycle)
		if !next.Valid() || s.IsActive {
			return State{}, fmt.Errorf("%w: invalid pending cycle %q", ErrSnapshotCorrupt, s.PendingCycle)
		}
		state.PendingCycle = &next
	}
	return state, nil
}
