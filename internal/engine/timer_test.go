package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustrack/internal/model"
)

var writeTask = Task{ID: "task-1", Title: "Write chapter", GoalID: "goal-1"}

func newTestTimer(t *testing.T, cfg Config) (*Timer, *fakeClock, *recordingPublisher) {
	t.Helper()
	clock := newFakeClock()
	pub := &recordingPublisher{}
	timer, err := NewTimer(cfg, WithClock(clock), WithPublisher(pub))
	require.NoError(t, err)
	return timer, clock, pub
}

func TestNewTimer_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.CyclesUntilLongBreak = 0
	_, err := NewTimer(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testConfig()
	cfg.ShortBreakDuration = 0
	_, err = NewTimer(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStart(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())

	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	st := timer.State()
	assert.Equal(t, PhaseRunning, st.Phase())
	assert.True(t, st.IsActive)
	require.NotNil(t, st.IntervalStart)
	assert.Equal(t, clock.Now(), *st.IntervalStart)
	assert.Equal(t, model.CycleWork, st.PomodoroCycle)
	assert.Zero(t, st.AccumulatedMs)
	assert.NotEmpty(t, st.SequenceID)
	assert.Equal(t, writeTask, *st.ActiveTask)

	assert.ErrorIs(t, timer.Start(writeTask, model.ModePomodoro), ErrSessionInProgress)
}

func TestStart_RejectsInvalidInput(t *testing.T) {
	timer, _, _ := newTestTimer(t, testConfig())

	err := timer.Start(writeTask, model.Mode("countdown"))
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.ErrorIs(t, timer.Start(Task{Title: "untitled"}, model.ModeStopwatch), ErrMissingTask)
	assert.Equal(t, PhaseIdle, timer.Phase())

	require.NoError(t, timer.Start(writeTask, model.ModeStopwatch))
}

func TestStart_StopwatchHasNoSequence(t *testing.T) {
	timer, _, _ := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModeStopwatch))
	assert.Empty(t, timer.State().SequenceID)
}

func TestPause_TwiceEqualsOnce(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModeStopwatch))

	clock.Advance(7 * time.Minute)
	require.True(t, timer.Pause())
	once := timer.State()

	clock.Advance(3 * time.Minute)
	assert.False(t, timer.Pause())
	assert.Equal(t, once, timer.State())
	assert.Equal(t, int64(7*60*1000), once.AccumulatedMs)
}

func TestInvalidTransitionsAreNoops(t *testing.T) {
	timer, _, _ := newTestTimer(t, testConfig())

	assert.False(t, timer.Pause(), "pause while idle")
	assert.False(t, timer.Resume(), "resume while idle")
	assert.False(t, timer.Continue(), "continue while idle")
	assert.False(t, timer.SkipBreak(), "skip while idle")
	assert.Equal(t, PhaseIdle, timer.Phase())

	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	assert.False(t, timer.Resume(), "resume while running")
	assert.False(t, timer.SkipBreak(), "skip during work")
}

func TestStopwatch_NeverAutoTransitions(t *testing.T) {
	timer, clock, pub := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModeStopwatch))

	now := clock.Advance(10 * time.Hour)
	assert.False(t, timer.CheckIntervalCompletion(now))
	assert.Equal(t, PhaseRunning, timer.Phase())
	assert.Empty(t, pub.Commands())

	_, bounded := timer.Remaining(now)
	assert.False(t, bounded)
}

func TestCheckIntervalCompletion_WorkInterval(t *testing.T) {
	timer, clock, pub := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	seq := timer.State().SequenceID

	assert.False(t, timer.CheckIntervalCompletion(clock.Advance(24*time.Minute)))

	now := clock.Advance(90 * time.Second)
	require.True(t, timer.CheckIntervalCompletion(now))

	st := timer.State()
	assert.Equal(t, PhaseTransitioning, st.Phase())
	assert.False(t, st.IsActive)
	assert.Nil(t, st.IntervalStart)
	assert.Zero(t, st.AccumulatedMs)
	assert.Equal(t, int64(25*60*1000), st.TotalFocusMs)
	assert.Equal(t, 1, st.CompletedWorkCyclesInSet)
	require.NotNil(t, st.PendingCycle)
	assert.Equal(t, model.CycleShortBreak, *st.PendingCycle)

	cmds := pub.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, CommandEmitInterval, cmds[0].Kind)
	iv := cmds[0].Interval
	require.NotNil(t, iv)
	assert.Equal(t, now.Add(-25*time.Minute), iv.StartTime)
	assert.Equal(t, now, iv.EndTime)
	assert.Equal(t, 1500, iv.DurationSeconds)
	assert.Equal(t, "task-1", iv.TaskID)
	assert.Equal(t, "goal-1", iv.GoalID)
	assert.Equal(t, model.ModePomodoro, iv.Mode)
	assert.Equal(t, model.CycleWork, iv.PomodoroCycle)
	assert.Equal(t, seq, iv.SequenceID)

	// Redundant re-evaluation after completion does nothing.
	assert.False(t, timer.CheckIntervalCompletion(clock.Advance(time.Second)))
	assert.False(t, timer.CheckIntervalCompletion(clock.Advance(time.Hour)))
	assert.Len(t, pub.Commands(), 1)
}

func TestCheckIntervalCompletion_CountsPausedTimeOut(t *testing.T) {
	timer, clock, pub := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))

	clock.Advance(20 * time.Minute)
	timer.Pause()
	clock.Advance(2 * time.Hour)
	assert.False(t, timer.Tick(), "paused work has 20 minutes banked")
	timer.Resume()
	clock.Advance(4 * time.Minute)
	assert.False(t, timer.Tick())
	clock.Advance(time.Minute)
	assert.True(t, timer.Tick())
	assert.Len(t, pub.Commands(), 1)
}

func TestFullPomodoroSet(t *testing.T) {
	cfg := testConfig()
	timer, clock, pub := newTestTimer(t, cfg)
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))

	var breaks []model.Cycle
	for i := 0; i < 4; i++ {
		require.True(t, timer.CheckIntervalCompletion(clock.Advance(cfg.WorkDuration)))
		st := timer.State()
		breaks = append(breaks, *st.PendingCycle)

		require.True(t, timer.Continue())
		st = timer.State()
		duration, _ := cfg.IntervalDuration(st.Mode, st.PomodoroCycle)
		require.True(t, timer.CheckIntervalCompletion(clock.Advance(duration)))
		require.True(t, timer.Continue())
		assert.Equal(t, model.CycleWork, timer.State().PomodoroCycle)
	}

	assert.Equal(t, []model.Cycle{
		model.CycleShortBreak, model.CycleShortBreak, model.CycleShortBreak, model.CycleLongBreak,
	}, breaks)
	assert.Equal(t, 0, timer.State().CompletedWorkCyclesInSet, "taking the long break starts a new set")
	assert.Equal(t, int64(4*25*60*1000), timer.State().TotalFocusMs)

	cmds := pub.Commands()
	require.Len(t, cmds, 8)
	seq := cmds[0].Interval.SequenceID
	for _, cmd := range cmds {
		assert.Equal(t, seq, cmd.Interval.SequenceID)
	}
	assert.Equal(t, model.CycleLongBreak, cmds[7].Interval.PomodoroCycle)
}

func TestCyclesUntilLongBreakOfOne(t *testing.T) {
	cfg := testConfig()
	cfg.CyclesUntilLongBreak = 1
	timer, clock, _ := newTestTimer(t, cfg)
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))

	for i := 0; i < 3; i++ {
		require.True(t, timer.CheckIntervalCompletion(clock.Advance(cfg.WorkDuration)))
		assert.Equal(t, model.CycleLongBreak, *timer.State().PendingCycle)
		require.True(t, timer.Continue())
		require.True(t, timer.CheckIntervalCompletion(clock.Advance(cfg.LongBreakDuration)))
		require.True(t, timer.Continue())
	}
}

func TestTransitioning_DoesNotAutoStart(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	require.False(t, timer.Tick())
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(25*time.Minute)))

	clock.Advance(3 * time.Hour)
	assert.Equal(t, time.Duration(0), timer.Elapsed(clock.Now()), "no unattended time accrues")
	assert.False(t, timer.Pause())
	assert.False(t, timer.Resume())

	require.True(t, timer.Continue())
	st := timer.State()
	assert.Equal(t, model.CycleShortBreak, st.PomodoroCycle)
	assert.Equal(t, clock.Now(), *st.IntervalStart)
}

func TestSkipBreak(t *testing.T) {
	timer, clock, pub := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(25*time.Minute)))
	require.True(t, timer.Continue())

	clock.Advance(2 * time.Minute)
	require.True(t, timer.SkipBreak())
	st := timer.State()
	assert.Equal(t, PhaseTransitioning, st.Phase())
	assert.Equal(t, model.CycleWork, *st.PendingCycle)
	assert.Len(t, pub.Commands(), 1, "a skipped break is never logged")

	require.True(t, timer.Continue())
	assert.Equal(t, model.CycleWork, timer.State().PomodoroCycle)
}

func TestFinish_Stopwatch(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModeStopwatch))
	clock.Advance(40 * time.Minute)
	timer.Pause()
	clock.Advance(time.Hour)
	timer.Resume()
	clock.Advance(20*time.Minute + 400*time.Millisecond)

	summary, ok := timer.Finish()
	require.True(t, ok)
	assert.Equal(t, 3600, summary.DurationSeconds)
	assert.Equal(t, model.ModeStopwatch, summary.Mode)
	assert.Equal(t, model.CycleWork, summary.Cycle)
	assert.Equal(t, writeTask, summary.Task)
	assert.Equal(t, clock.Now(), summary.EndedAt)
	assert.Equal(t, PhaseIdle, timer.Phase())
}

func TestFinish_PartialWorkInterval(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(25*time.Minute)))
	require.True(t, timer.Continue())
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(5*time.Minute)))
	require.True(t, timer.Continue())
	clock.Advance(10 * time.Minute)

	summary, ok := timer.Finish()
	require.True(t, ok)
	assert.Equal(t, 600, summary.DurationSeconds, "the partial interval need not reach its full length")
	assert.Equal(t, 35*60, summary.TotalFocusSeconds)
	assert.NotEmpty(t, summary.SequenceID)
}

func TestFinish_DuringBreakDiscardsBreak(t *testing.T) {
	timer, clock, pub := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(25*time.Minute)))
	require.True(t, timer.Continue())
	clock.Advance(3 * time.Minute)

	summary, ok := timer.Finish()
	assert.False(t, ok)
	assert.Zero(t, summary.DurationSeconds)
	assert.Equal(t, 1500, summary.TotalFocusSeconds)
	assert.Equal(t, PhaseIdle, timer.Phase())
	assert.Len(t, pub.Commands(), 1)
}

func TestFinish_Idle(t *testing.T) {
	timer, _, _ := newTestTimer(t, testConfig())
	_, ok := timer.Finish()
	assert.False(t, ok)
}

func TestDiscard_DeletesSequenceAndResets(t *testing.T) {
	timer, clock, pub := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	seq := timer.State().SequenceID
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(25*time.Minute)))

	assert.Equal(t, seq, timer.Discard())
	assert.Equal(t, PhaseIdle, timer.Phase())

	cmds := pub.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, CommandDeleteSequence, cmds[1].Kind)
	assert.Equal(t, seq, cmds[1].SequenceID)
}

func TestDiscard_ThenStartIsFresh(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(25*time.Minute)))
	require.True(t, timer.Continue())
	clock.Advance(time.Minute)
	timer.Pause()
	old := timer.State()
	timer.Discard()

	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	fresh := timer.State()

	reference, _, _ := newTestTimer(t, testConfig())
	reference.clock = timer.clock
	require.NoError(t, reference.Start(writeTask, model.ModePomodoro))
	want := reference.State()

	assert.NotEqual(t, old.SequenceID, fresh.SequenceID)
	want.SequenceID = fresh.SequenceID
	assert.Equal(t, want, fresh)
}

func TestReset_FromEveryPhase(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())

	timer.Reset()
	assert.Equal(t, idleState(), timer.State())

	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	timer.Reset()
	assert.Equal(t, idleState(), timer.State())

	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	timer.Pause()
	timer.Reset()
	assert.Equal(t, idleState(), timer.State())

	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	timer.CheckIntervalCompletion(clock.Advance(25 * time.Minute))
	timer.Reset()
	assert.Equal(t, idleState(), timer.State())
}

func TestRemainingAndProgress(t *testing.T) {
	timer, clock, _ := newTestTimer(t, testConfig())
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))

	now := clock.Advance(5 * time.Minute)
	remaining, bounded := timer.Remaining(now)
	require.True(t, bounded)
	assert.Equal(t, 20*time.Minute, remaining)
	assert.InDelta(t, 0.2, timer.Progress(now), 1e-9)

	remaining, _ = timer.Remaining(now.Add(time.Hour))
	assert.Equal(t, time.Duration(0), remaining)
}

func TestCompletionObserved(t *testing.T) {
	obs := &recordingObserver{}
	clock := newFakeClock()
	timer, err := NewTimer(testConfig(), WithClock(clock), WithObserver(obs))
	require.NoError(t, err)
	require.NoError(t, timer.Start(writeTask, model.ModePomodoro))
	require.True(t, timer.CheckIntervalCompletion(clock.Advance(25*time.Minute)))

	events := obs.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "interval_completed", events[0].Name)
	assert.Equal(t, "short_break", events[0].Fields["next_cycle"])
}
