package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
)

func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

var errNotConfirmed = errors.New("aborted")

// confirm asks before a destructive command. --yes skips the prompt; a
// non-interactive session without --yes is refused.
func confirm(app *App, yes bool, title string) error {
	if yes {
		return nil
	}
	if app.IsInteractive == nil || !app.IsInteractive() {
		return fmt.Errorf("%s: pass --yes to confirm in a non-interactive session", title)
	}
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return err
	}
	if !ok {
		return errNotConfirmed
	}
	return nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	d, err := calendar.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: use YYYY-MM-DD", name, value)
	}
	return d, nil
}

// parseOptionalDate leaves the zero time for an empty value.
func parseOptionalDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDateFlag(name, value)
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		_ = cmd.MarkFlagRequired(n)
	}
}

// changedDate parses a date flag only when it was given.
func changedDate(flags *pflag.FlagSet, name string) (*time.Time, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return nil, err
	}
	d, err := parseDateFlag(name, v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
