package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustrack/internal/engine"
	"focustrack/internal/model"
)

func newWatchTimer(t *testing.T, clock *testClock) (*engine.Timer, *fakePublisher) {
	t.Helper()
	publisher := &fakePublisher{}
	timer, err := engine.NewTimer(engine.DefaultConfig(), engine.WithClock(clock), engine.WithPublisher(publisher))
	require.NoError(t, err)
	require.NoError(t, timer.Start(engine.Task{ID: "t1", Title: "Read paper"}, model.ModePomodoro))
	return timer, publisher
}

type fakePublisher struct {
	commands []engine.Command
}

func (p *fakePublisher) Publish(cmd engine.Command) {
	p.commands = append(p.commands, cmd)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m watchModel, msg tea.Msg) (watchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	wm, ok := next.(watchModel)
	require.True(t, ok)
	return wm, cmd
}

func TestWatchModel_TickCompletesInterval(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)}
	timer, publisher := newWatchTimer(t, clock)
	m := newWatchModel(timer, clock, nil)

	clock.Advance(10 * time.Minute)
	m, cmd := update(t, m, tickMsg(clock.Now()))
	assert.NotNil(t, cmd, "ticks keep coming")
	assert.Contains(t, m.View(), "15:00 remaining")
	assert.Contains(t, m.View(), "Read paper")
	assert.Empty(t, publisher.commands)

	clock.Advance(15 * time.Minute)
	m, _ = update(t, m, tickMsg(clock.Now()))
	require.Len(t, publisher.commands, 1)
	assert.Contains(t, m.View(), "Interval complete")

	// Redundant ticks do not log twice.
	m, _ = update(t, m, tickMsg(clock.Now()))
	assert.Len(t, publisher.commands, 1)

	m, _ = update(t, m, key("c"))
	assert.Equal(t, model.CycleShortBreak, timer.State().PomodoroCycle)
	assert.Equal(t, engine.PhaseRunning, timer.Phase())

	m, _ = update(t, m, key("s"))
	assert.Equal(t, engine.PhaseTransitioning, timer.Phase())
	assert.Contains(t, m.View(), "Break skipped")
}

func TestWatchModel_PauseToggleAndQuit(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)}
	timer, _ := newWatchTimer(t, clock)
	m := newWatchModel(timer, clock, nil)

	m, _ = update(t, m, key(" "))
	assert.Equal(t, engine.PhasePaused, timer.Phase())
	m, _ = update(t, m, key("p"))
	assert.Equal(t, engine.PhaseRunning, timer.Phase())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, 60, m.bar.Width)

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWatchModel_StopwatchShowsElapsed(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)}
	timer, err := engine.NewTimer(engine.DefaultConfig(), engine.WithClock(clock))
	require.NoError(t, err)
	require.NoError(t, timer.Start(engine.Task{ID: "t1"}, model.ModeStopwatch))

	m := newWatchModel(timer, clock, nil)
	clock.Advance(90 * time.Minute)
	m, _ = update(t, m, tickMsg(clock.Now()))
	assert.Contains(t, m.View(), "1:30:00 elapsed")
}

func TestWatch_CompletionSurvivesKilledProcess(t *testing.T) {
	env := newTestEnv(t)
	mustExecute(t, env.app, "start", "--task", "t1")

	var onDisk engine.Snapshot
	var out, errOut bytes.Buffer
	err := env.app.withTimer(context.Background(), &out, &errOut, func(s *session) error {
		m := newWatchModel(s.timer, env.clock, s.commit)
		env.clock.Advance(25 * time.Minute)
		update(t, m, tickMsg(env.clock.Now()))

		require.Eventually(t, func() bool { return len(env.backend.Intervals()) == 1 },
			time.Second, 10*time.Millisecond)

		saved, ok, err := env.store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		onDisk = saved
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.CycleShortBreak), onDisk.PendingCycle)
	assert.False(t, onDisk.IsActive)

	// The process dies here; the next invocation starts from what was on disk.
	env.store.snapshot = &onDisk
	status := mustExecute(t, env.app, "status")
	assert.NotContains(t, status, "finished while you were away")
	assert.Len(t, env.backend.Intervals(), 1)
}

func TestWatchModel_SaveFailureIsShown(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)}
	timer, _ := newWatchTimer(t, clock)
	commits := 0
	m := newWatchModel(timer, clock, func() error {
		commits++
		return errors.New("disk full")
	})

	m, _ = update(t, m, key("p"))
	assert.Equal(t, 1, commits)
	assert.Contains(t, m.View(), "Could not save timer state: disk full")

	// Keys that change nothing do not save.
	m, _ = update(t, m, key("c"))
	assert.Equal(t, 1, commits)
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "00:00",
		-time.Second:            "00:00",
		1499 * time.Millisecond: "00:01",
		25 * time.Minute:        "25:00",
		time.Hour + time.Second: "1:00:01",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatClock(in), in.String())
	}
}
