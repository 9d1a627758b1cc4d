package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"focustrack/internal/engine"
	"focustrack/internal/model"
)

const watchInterval = time.Second

type tickMsg time.Time

// watchModel is the live view. Each tick re-runs the completion check, so
// intervals finish on screen at the right moment even after the machine
// slept. Every state change is committed right away; the view can run for
// hours and the terminal may be closed under it.
type watchModel struct {
	timer  *engine.Timer
	clock  engine.Clock
	commit func() error
	bar    progress.Model
	now    time.Time
	notice string
}

func newWatchModel(timer *engine.Timer, clock engine.Clock, commit func() error) watchModel {
	return watchModel{
		timer:  timer,
		clock:  clock,
		commit: commit,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		now:    clock.Now(),
	}
}

// changed persists the timer after a transition. A failed save keeps the
// view running and says so.
func (m *watchModel) changed(notice string) {
	m.notice = notice
	if m.commit == nil {
		return
	}
	if err := m.commit(); err != nil {
		m.notice = "Could not save timer state: " + err.Error()
	}
}

func tick() tea.Cmd {
	return tea.Tick(watchInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = m.clock.Now()
		if m.timer.CheckIntervalCompletion(m.now) {
			m.changed("Interval complete and logged. Press c to continue.")
		}
		return m, tick()

	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 60 {
			width = 60
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		m.now = m.clock.Now()
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			switch {
			case m.timer.Pause():
				m.changed("Paused.")
			case m.timer.Resume():
				m.changed("Resumed.")
			}
		case "c":
			if m.timer.Continue() {
				m.changed("")
			}
		case "s":
			if m.timer.SkipBreak() {
				m.changed("Break skipped. Press c to start working.")
			}
		}
		return m, nil
	}
	return m, nil
}

func (m watchModel) View() string {
	state := m.timer.State()
	if state.Phase() == engine.PhaseIdle {
		return styleHint.Render("No focus session.") + "\n"
	}

	var b strings.Builder
	header := styleValue.Render(taskLabel(state.ActiveTask))
	if state.Mode == model.ModePomodoro {
		header += "  " + cycleStyle(state.PomodoroCycle).Render(cycleLabel(state.PomodoroCycle))
	}
	b.WriteString(header + "\n\n")

	if remaining, bounded := m.timer.Remaining(m.now); bounded {
		b.WriteString(m.bar.ViewAs(m.timer.Progress(m.now)) + "\n")
		b.WriteString(styleValue.Render(formatClock(remaining)) + " remaining")
	} else {
		b.WriteString(styleValue.Render(formatClock(m.timer.Elapsed(m.now))) + " elapsed")
	}
	b.WriteString("  " + styleHint.Render(string(state.Phase())) + "\n")

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}
	b.WriteString("\n" + styleHint.Render("space pause/resume · c continue · s skip break · q quit") + "\n")
	return b.String()
}

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("watch needs an interactive terminal")
			}
			out := cmd.OutOrStdout()
			return app.withTimer(commandContext(cmd), out, cmd.ErrOrStderr(), func(s *session) error {
				if s.timer.Phase() == engine.PhaseIdle {
					fmt.Fprintln(out, "No focus session. Start one with: focus start --task <id>")
					return nil
				}
				program := tea.NewProgram(newWatchModel(s.timer, app.clock(), s.commit), tea.WithOutput(out))
				_, err := program.Run()
				return err
			})
		},
	}
}
