package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"focustrack/internal/engine"
	"focustrack/internal/model"
)

func newStartCmd(app *App) *cobra.Command {
	var task engine.Task
	var mode string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session on a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := model.Mode(strings.ToLower(mode))
			if !m.Valid() {
				return fmt.Errorf("unknown mode %q: use stopwatch or pomodoro", mode)
			}
			out := cmd.OutOrStdout()

			return app.withTimer(commandContext(cmd), out, cmd.ErrOrStderr(), func(s *session) error {
				if err := s.timer.Start(task, m); err != nil {
					if errors.Is(err, engine.ErrSessionInProgress) {
						return fmt.Errorf("%w: finish, discard or reset it first", err)
					}
					return err
				}
				if m == model.ModePomodoro {
					fmt.Fprintf(out, "Started %s on %s (%s)\n",
						cycleLabel(model.CycleWork), taskLabel(&task), formatClock(app.Timer.WorkDuration))
					return nil
				}
				fmt.Fprintf(out, "Started stopwatch on %s\n", taskLabel(&task))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&task.ID, "task", "", "Task ID")
	cmd.Flags().StringVar(&task.Title, "title", "", "Task title shown in status")
	cmd.Flags().StringVar(&task.GoalID, "goal", "", "Goal the task contributes to")
	cmd.Flags().StringVar(&mode, "mode", string(model.ModePomodoro), "stopwatch or pomodoro")
	_ = cmd.MarkFlagRequired("task")

	return cmd
}

// newTimerActionCmd builds the small commands that call one timer method
// and report whether it applied.
func newTimerActionCmd(app *App, use, short, done, noop string, action func(*engine.Timer) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return app.withTimer(commandContext(cmd), out, cmd.ErrOrStderr(), func(s *session) error {
				if action(s.timer) {
					fmt.Fprintln(out, done)
				} else {
					fmt.Fprintln(out, noop)
				}
				return nil
			})
		},
	}
}

func newPauseCmd(app *App) *cobra.Command {
	return newTimerActionCmd(app, "pause", "Pause the running interval",
		"Paused.", "Nothing is running.", (*engine.Timer).Pause)
}

func newResumeCmd(app *App) *cobra.Command {
	return newTimerActionCmd(app, "resume", "Resume a paused interval",
		"Resumed.", "Nothing is paused.", (*engine.Timer).Resume)
}

func newContinueCmd(app *App) *cobra.Command {
	return newTimerActionCmd(app, "continue", "Start the next Pomodoro interval",
		"Next interval started.", "No interval is waiting to start.", (*engine.Timer).Continue)
}

func newSkipCmd(app *App) *cobra.Command {
	return newTimerActionCmd(app, "skip", "Skip the current break",
		"Break skipped. Run `focus continue` to start working.", "Not on a break.", (*engine.Timer).SkipBreak)
}

func newResetCmd(app *App) *cobra.Command {
	return newTimerActionCmd(app, "reset", "Return the timer to idle without deleting anything",
		"Timer reset.", "Timer reset.", func(t *engine.Timer) bool {
			t.Reset()
			return true
		})
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return app.withTimer(commandContext(cmd), out, cmd.ErrOrStderr(), func(s *session) error {
				fmt.Fprintln(out, renderStatus(s.timer, app.clock().Now()))
				return nil
			})
		},
	}
}

func newDiscardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Abandon the session and delete the intervals it logged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return app.withTimer(commandContext(cmd), out, cmd.ErrOrStderr(), func(s *session) error {
				if sequenceID := s.timer.Discard(); sequenceID != "" {
					fmt.Fprintf(out, "Session discarded; removing intervals logged under %s.\n", sequenceID)
					return nil
				}
				fmt.Fprintln(out, "Session discarded.")
				return nil
			})
		},
	}
}

func newFinishCmd(app *App) *cobra.Command {
	var vibe, note string

	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Stop the session and log the work done so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if vibe != "" && !model.Vibe(strings.ToLower(vibe)).Valid() {
				return fmt.Errorf("unknown vibe %q: use flow, neutral or struggle", vibe)
			}
			out := cmd.OutOrStdout()
			return app.withTimer(commandContext(cmd), out, cmd.ErrOrStderr(), func(s *session) error {
				summary, ok := s.timer.Finish()
				if !ok {
					if summary.Task.ID == "" {
						fmt.Fprintln(out, "Nothing to log; the timer is idle.")
						return nil
					}
					fmt.Fprintln(out, "Session ended. Only work time is logged, so nothing was added.")
					if summary.TotalFocusSeconds > 0 {
						fmt.Fprintf(out, "Session total: %s\n", formatMinutes(summary.TotalFocusSeconds))
					}
					return nil
				}

				input := summaryInput{Vibe: vibe, Note: note}
				if input.Vibe == "" && app.interactive() {
					if err := runSummaryForm(&input, summary); err != nil {
						// The session is already over; log it without a rating.
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: summary form: %v\n", err)
						input = summaryInput{Note: note}
					}
				}
				interval, err := summaryInterval(summary, input)
				if err != nil {
					return err
				}
				s.emit(interval)

				fmt.Fprintf(out, "Logged %s on %s. Session total: %s\n",
					formatMinutes(summary.DurationSeconds), taskLabel(&summary.Task), formatMinutes(summary.TotalFocusSeconds))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&vibe, "vibe", "", "flow, neutral or struggle")
	cmd.Flags().StringVar(&note, "note", "", "Note attached to the logged interval")
	return cmd
}

type summaryInput struct {
	Vibe string
	Note string
}

// summaryInterval turns a manual finish into the record to log.
func summaryInterval(summary engine.Summary, input summaryInput) (engine.Interval, error) {
	interval := engine.Interval{
		StartTime:       summary.StartedAt,
		EndTime:         summary.EndedAt,
		DurationSeconds: summary.DurationSeconds,
		TaskID:          summary.Task.ID,
		GoalID:          summary.Task.GoalID,
		Mode:            summary.Mode,
		SequenceID:      summary.SequenceID,
		Note:            strings.TrimSpace(input.Note),
	}
	if summary.Mode == model.ModePomodoro {
		interval.PomodoroCycle = summary.Cycle
	}
	if input.Vibe != "" {
		v := model.Vibe(strings.ToLower(input.Vibe))
		if !v.Valid() {
			return engine.Interval{}, fmt.Errorf("unknown vibe %q: use flow, neutral or struggle", input.Vibe)
		}
		interval.Vibe = v
	}
	return interval, nil
}

// commandContext falls back to Background for commands run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
