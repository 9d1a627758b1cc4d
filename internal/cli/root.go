package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCmd creates the top-level "focus" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "focus",
		Short:         "Focus timer with Pomodoro cycles and streaks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindGlobalFlags(root.PersistentFlags(), app)

	root.AddCommand(
		newStartCmd(app),
		newPauseCmd(app),
		newResumeCmd(app),
		newContinueCmd(app),
		newSkipCmd(app),
		newStatusCmd(app),
		newFinishCmd(app),
		newDiscardCmd(app),
		newResetCmd(app),
		newWatchCmd(app),
		newStreakCmd(app),
		newPausePeriodCmd(app),
		newLoginCmd(app),
	)

	return root
}

func bindGlobalFlags(flags *pflag.FlagSet, app *App) {
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Log every engine event to stderr")
}
