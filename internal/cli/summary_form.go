package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"focustrack/internal/engine"
	"focustrack/internal/model"
)

func focusHuhTheme() *huh.Theme {
	theme := huh.ThemeBase()
	theme.Focused.Title = theme.Focused.Title.Foreground(colorWork).Bold(true)
	theme.Focused.SelectedOption = theme.Focused.SelectedOption.Foreground(colorBreak)
	return theme
}

// summaryForm asks how the session went before it is logged.
func summaryForm(input *summaryInput, summary engine.Summary) *huh.Form {
	if input.Vibe == "" {
		input.Vibe = string(model.VibeNeutral)
	}
	title := fmt.Sprintf("%s of focus on %s. How did it go?",
		formatMinutes(summary.DurationSeconds), taskLabel(&summary.Task))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(
					huh.NewOption("Flow", string(model.VibeFlow)),
					huh.NewOption("Neutral", string(model.VibeNeutral)),
					huh.NewOption("Struggle", string(model.VibeStruggle)),
				).
				Value(&input.Vibe),
			huh.NewText().
				Title("Note (optional)").
				CharLimit(500).
				Value(&input.Note),
		),
	).WithTheme(focusHuhTheme()).WithShowHelp(false)
}

func runSummaryForm(input *summaryInput, summary engine.Summary) error {
	return summaryForm(input, summary).Run()
}
