package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"focustrack/internal/engine"
	"focustrack/internal/model"
)

var (
	colorWork  = lipgloss.Color("#E06C75")
	colorBreak = lipgloss.Color("#98C379")
	colorDim   = lipgloss.Color("#5C6370")

	styleLabel = lipgloss.NewStyle().Foreground(colorDim).Width(12)
	styleValue = lipgloss.NewStyle().Bold(true)
	styleHint  = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	styleBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(1, 2)
)

// formatClock renders d as mm:ss, or h:mm:ss from an hour up.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatMinutes(seconds int) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", seconds)
	}
	return d.Round(time.Minute).String()
}

func cycleLabel(c model.Cycle) string {
	switch c {
	case model.CycleShortBreak:
		return "short break"
	case model.CycleLongBreak:
		return "long break"
	default:
		return "work"
	}
}

func cycleStyle(c model.Cycle) lipgloss.Style {
	if c.IsBreak() {
		return styleValue.Foreground(colorBreak)
	}
	return styleValue.Foreground(colorWork)
}

func taskLabel(task *engine.Task) string {
	if task == nil {
		return ""
	}
	if task.Title != "" {
		return task.Title
	}
	return task.ID
}

// renderStatus lays out the timer state as label/value rows.
func renderStatus(timer *engine.Timer, now time.Time) string {
	state := timer.State()
	phase := state.Phase()
	if phase == engine.PhaseIdle {
		return styleHint.Render("No focus session. Start one with: focus start --task <id>")
	}

	rows := [][2]string{
		{"Task", styleValue.Render(taskLabel(state.ActiveTask))},
		{"State", styleValue.Render(string(phase))},
		{"Mode", string(state.Mode)},
	}
	if state.ActiveTask.GoalID != "" {
		rows = append(rows, [2]string{"Goal", state.ActiveTask.GoalID})
	}

	if state.Mode == model.ModePomodoro {
		rows = append(rows, [2]string{"Cycle", cycleStyle(state.PomodoroCycle).Render(cycleLabel(state.PomodoroCycle))})
		if state.PendingCycle != nil {
			rows = append(rows, [2]string{"Up next", cycleStyle(*state.PendingCycle).Render(cycleLabel(*state.PendingCycle))})
		} else {
			remaining, _ := timer.Remaining(now)
			rows = append(rows, [2]string{"Remaining", styleValue.Render(formatClock(remaining))})
		}
		rows = append(rows, [2]string{"Set", fmt.Sprintf("%d/%d work intervals", state.CompletedWorkCyclesInSet, timer.Config().CyclesUntilLongBreak)})
	} else {
		rows = append(rows, [2]string{"Elapsed", styleValue.Render(formatClock(timer.Elapsed(now)))})
	}
	if state.TotalFocusMs > 0 {
		rows = append(rows, [2]string{"Logged", formatMinutes(int(state.TotalFocusMs / 1000))})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, styleLabel.Render(row[0]), row[1]))
	}
	if hint := phaseHint(phase); hint != "" {
		lines = append(lines, "", styleHint.Render(hint))
	}
	return styleBox.Render(strings.Join(lines, "\n"))
}

func phaseHint(phase engine.Phase) string {
	switch phase {
	case engine.PhaseTransitioning:
		return "Interval complete. Run `focus continue` when you are ready."
	case engine.PhasePaused:
		return "Paused. Run `focus resume` to pick up where you left off."
	default:
		return ""
	}
}
