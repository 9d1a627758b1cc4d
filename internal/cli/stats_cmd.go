package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"focustrack/internal/streak"
)

func newStreakCmd(app *App) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show your current streak and today's focus time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()

			tracker := streak.NewTracker(app.Backend, app.Backend,
				streak.WithLocation(app.location()),
				streak.WithNow(app.clock().Now),
			)

			var result streak.Result
			var todaySeconds int
			if remote {
				r, err := app.Backend.Streak(ctx, tracker.Today())
				if err != nil {
					return err
				}
				result = r
			} else {
				stats, err := tracker.Stats(ctx)
				if err != nil {
					return err
				}
				result = stats.Streak
				todaySeconds = stats.TodayFocusSeconds
			}

			fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Streak"), styleValue.Render(pluralDays(result.CurrentStreak)))
			if result.TodayCounted {
				fmt.Fprintln(out, styleHint.Render("Today is in."))
			} else if result.CurrentStreak > 0 {
				fmt.Fprintln(out, styleHint.Render("Log a session today to extend it."))
			}
			if !remote {
				fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Today"), formatMinutes(todaySeconds))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the server instead of computing locally")
	return cmd
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func newPausePeriodCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause-period",
		Short: "Manage days that do not break your streak",
	}
	cmd.AddCommand(newPausePeriodAddCmd(app), newPausePeriodListCmd(app))
	return cmd
}

func newPausePeriodAddCmd(app *App) *cobra.Command {
	var from, to, reason string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Declare a pause period (inclusive dates)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := streak.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end := start
			if to != "" {
				if end, err = streak.ParseDate(to); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}
			if end < start {
				return errors.New("--from must not be after --to")
			}

			period, err := app.Backend.CreatePausePeriod(commandContext(cmd), start, end, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pause period %s to %s saved (%s)\n", period.StartDate, period.EndDate, period.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First paused day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last paused day (YYYY-MM-DD, defaults to --from)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why you are pausing")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func newPausePeriodListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pause periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			periods, err := app.Backend.PausePeriods(commandContext(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(periods) == 0 {
				fmt.Fprintln(out, "No pause periods.")
				return nil
			}
			for _, p := range periods {
				line := fmt.Sprintf("%s  %s → %s", p.ID, p.StartDate, p.EndDate)
				if p.Reason != "" {
					line += "  " + styleHint.Render(p.Reason)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (email == "" || password == "") && app.interactive() {
				form := huh.NewForm(huh.NewGroup(
					huh.NewInput().Title("Email").Value(&email),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
				)).WithTheme(focusHuhTheme()).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
			}
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			token, err := app.Backend.Login(commandContext(cmd), email, password)
			if err != nil {
				return err
			}
			if app.SaveCredentials != nil {
				if err := app.SaveCredentials(token); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}
