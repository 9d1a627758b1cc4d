package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"focustrack/internal/model"
)

var (
	ErrSessionInProgress = errors.New("a focus session is already in progress")
	ErrUnknownMode       = errors.New("unknown timer mode")
	ErrMissingTask       = errors.New("a focus session needs a task id")
)

// Summary is what a manual finish hands to session summarization.
type Summary struct {
	Task              Task
	Mode              model.Mode
	Cycle             model.Cycle
	SequenceID        string
	DurationSeconds   int
	StartedAt         time.Time
	EndedAt           time.Time
	TotalFocusSeconds int
}

// Timer is the focus session state machine. All mutation goes through its
// methods, which serialize on an internal mutex.
type Timer struct {
	mu        sync.Mutex
	cfg       Config
	clock     Clock
	publisher Publisher
	observer  Observer
	state     State
}

type Option func(*Timer)

func WithClock(clock Clock) Option {
	return func(t *Timer) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithPublisher sets where completed intervals and sequence deletions go.
func WithPublisher(publisher Publisher) Option {
	return func(t *Timer) {
		if publisher != nil {
			t.publisher = publisher
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(t *Timer) {
		if observer != nil {
			t.observer = observer
		}
	}
}

// NewTimer builds an idle timer. The configuration is validated here so a
// bad cycle count never surfaces mid-sequence.
func NewTimer(cfg Config, opts ...Option) (*Timer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Timer{
		cfg:       cfg,
		clock:     SystemClock(),
		publisher: discardPublisher{},
		observer:  NoopObserver{},
		state:     idleState(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Timer) Config() Config {
	return t.cfg
}

// State returns a copy of the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.clone()
}

func (t *Timer) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Phase()
}

// Start begins a new session on task. A session that is already running,
// paused or between intervals must be finished, discarded or reset first.
func (t *Timer) Start(task Task, mode model.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownMode, mode)
	}
	if strings.TrimSpace(task.ID) == "" {
		return ErrMissingTask
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Phase() != PhaseIdle {
		return ErrSessionInProgress
	}

	now := t.clock.Now()
	next := idleState()
	next.ActiveTask = &task
	next.Mode = mode
	next.PomodoroCycle = model.CycleWork
	if mode == model.ModePomodoro {
		next.SequenceID = uuid.NewString()
	}
	next.resume(now)
	t.state = next
	return nil
}

// Pause banks the running sub-interval. Calling it while paused, idle or
// between intervals does nothing.
func (t *Timer) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Phase() != PhaseRunning {
		return false
	}
	return t.state.pause(t.clock.Now())
}

// Resume re-anchors a paused interval. Calling it while running, idle or
// between intervals does nothing.
func (t *Timer) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Phase() != PhasePaused {
		return false
	}
	return t.state.resume(t.clock.Now())
}

// Tick runs CheckIntervalCompletion at the clock's current instant.
func (t *Timer) Tick() bool {
	return t.CheckIntervalCompletion(t.clock.Now())
}

// CheckIntervalCompletion is the host's re-evaluation hook. It may be called
// at any cadence, redundantly or after long suspensions. When the current
// Pomodoro interval has run its full length it is logged, the next cycle is
// computed and the timer waits for Continue. Reports whether an interval
// completed on this call.
func (t *Timer) CheckIntervalCompletion(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	phase := t.state.Phase()
	if phase != PhaseRunning && phase != PhasePaused {
		return false
	}
	duration, bounded := t.cfg.IntervalDuration(t.state.Mode, t.state.PomodoroCycle)
	if !bounded {
		return false
	}
	elapsed := ElapsedMs(t.state.AccumulatedMs, t.state.IntervalStart, now)
	if elapsed < duration.Milliseconds() {
		return false
	}

	completed := t.state.PomodoroCycle
	if completed == model.CycleWork {
		t.state.TotalFocusMs += duration.Milliseconds()
	}

	t.publisher.Publish(Command{
		Kind: CommandEmitInterval,
		Interval: &Interval{
			StartTime:       now.Add(-duration),
			EndTime:         now,
			DurationSeconds: roundSeconds(duration.Milliseconds()),
			TaskID:          t.state.ActiveTask.ID,
			GoalID:          t.state.ActiveTask.GoalID,
			Mode:            t.state.Mode,
			PomodoroCycle:   completed,
			SequenceID:      t.state.SequenceID,
		},
	})

	next, count := NextCycle(completed, t.state.CompletedWorkCyclesInSet, t.cfg.CyclesUntilLongBreak)
	t.state.CompletedWorkCyclesInSet = count
	t.state.AccumulatedMs = 0
	t.state.IntervalStart = nil
	t.state.IsActive = false
	t.state.PendingCycle = &next

	t.observer.Observe(context.Background(), Event{
		Name:    "interval_completed",
		Success: true,
		At:      now,
		Fields: map[string]any{
			"cycle":       string(completed),
			"next_cycle":  string(next),
			"sequence_id": t.state.SequenceID,
		},
	})
	return true
}

// Continue starts the interval the timer is waiting on. Nothing starts on
// its own after a completion.
func (t *Timer) Continue() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Phase() != PhaseTransitioning {
		return false
	}
	if t.state.PomodoroCycle == model.CycleLongBreak {
		t.state.CompletedWorkCyclesInSet = 0
	}
	t.state.PomodoroCycle = *t.state.PendingCycle
	t.state.PendingCycle = nil
	t.state.AccumulatedMs = 0
	t.state.resume(t.clock.Now())
	return true
}

// SkipBreak abandons the current break without logging it and waits for
// work to be continued.
func (t *Timer) SkipBreak() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	phase := t.state.Phase()
	if phase != PhaseRunning && phase != PhasePaused {
		return false
	}
	if !t.state.PomodoroCycle.IsBreak() {
		return false
	}
	if t.state.PomodoroCycle == model.CycleLongBreak {
		t.state.CompletedWorkCyclesInSet = 0
	}
	work := model.CycleWork
	t.state.PomodoroCycle = work
	t.state.PendingCycle = &work
	t.state.AccumulatedMs = 0
	t.state.IntervalStart = nil
	t.state.IsActive = false
	return true
}

// Finish stops the session by hand. Only work time is summarizable: the
// second result is false when the session was idle, on a break or between
// intervals, in which case nothing should be logged. The timer is idle
// afterwards either way.
func (t *Timer) Finish() (Summary, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	st := t.state
	t.state = idleState()

	if st.ActiveTask == nil {
		return Summary{}, false
	}

	summary := Summary{
		Task:              *st.ActiveTask,
		Mode:              st.Mode,
		Cycle:             st.PomodoroCycle,
		SequenceID:        st.SequenceID,
		EndedAt:           now,
		TotalFocusSeconds: roundSeconds(st.TotalFocusMs),
	}
	if st.PendingCycle != nil || st.PomodoroCycle.IsBreak() {
		summary.StartedAt = now
		return summary, false
	}

	elapsed := ElapsedMs(st.AccumulatedMs, st.IntervalStart, now)
	summary.DurationSeconds = roundSeconds(elapsed)
	summary.StartedAt = now.Add(-time.Duration(elapsed) * time.Millisecond)
	summary.TotalFocusSeconds = roundSeconds(st.TotalFocusMs + elapsed)
	return summary, elapsed > 0
}

// Discard abandons the session and asks for every interval already logged
// under its sequence to be deleted. The timer resets whether or not the
// deletion later succeeds. Returns the sequence id that was queued, if any.
func (t *Timer) Discard() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	sequenceID := t.state.SequenceID
	t.state = idleState()
	if sequenceID != "" {
		t.publisher.Publish(Command{Kind: CommandDeleteSequence, SequenceID: sequenceID})
	}
	return sequenceID
}

// Reset returns to idle from any state.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = idleState()
}

// Elapsed is the live elapsed time of the current interval.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(ElapsedMs(t.state.AccumulatedMs, t.state.IntervalStart, now)) * time.Millisecond
}

// Remaining is the time left in the current interval; the second result is
// false for open-ended intervals.
func (t *Timer) Remaining(now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining, _, bounded := t.remainingLocked(now)
	return remaining, bounded
}

// Progress is the completed fraction of a bounded interval, in [0, 1].
func (t *Timer) Progress(now time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	remaining, duration, bounded := t.remainingLocked(now)
	if !bounded {
		return 0
	}
	return 1 - float64(remaining)/float64(duration)
}

func (t *Timer) remainingLocked(now time.Time) (time.Duration, time.Duration, bool) {
	duration, bounded := t.cfg.IntervalDuration(t.state.Mode, t.state.PomodoroCycle)
	if !bounded || t.state.Phase() == PhaseIdle {
		return 0, 0, false
	}
	if t.state.PendingCycle != nil {
		return 0, duration, true
	}
	remaining := duration - time.Duration(ElapsedMs(t.state.AccumulatedMs, t.state.IntervalStart, now))*time.Millisecond
	if remaining < 0 {
		remaining = 0
	}
	return remaining, duration, true
}

func roundSeconds(ms int64) int {
	return int(math.Round(float64(ms) / 1000))
}
