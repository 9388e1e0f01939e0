package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
	"github.com/awsbudi/risk-tracker/internal/service"
)

var errGenerateRunning = errors.New("another generate run holds the lock")

func newGenerateCmd(app *App) *cobra.Command {
	var templateID int64
	var from, to string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create routine tasks from templates",
		Long: `Create the routine tasks every template is due for between --from and
--to (default: the current month). Instances that already exist are
skipped, so the command is safe to rerun.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start, err := parseOptionalDate("from", from)
			if err != nil {
				return err
			}
			end, err := parseOptionalDate("to", to)
			if err != nil {
				return err
			}

			unlock, err := app.lockGenerate()
			if err != nil {
				return err
			}
			defer unlock()

			var results []*service.GenerateResult
			if templateID != 0 {
				res, err := app.Recurrence.Generate(ctx, templateID, start, end)
				if err != nil {
					return err
				}
				results = []*service.GenerateResult{res}
			} else if results, err = app.Recurrence.GenerateAll(ctx, start, end); err != nil {
				return err
			}

			templates, err := app.Templates.List(ctx)
			if err != nil {
				return err
			}
			names := make(map[int64]string, len(templates))
			for _, tpl := range templates {
				names[tpl.ID] = tpl.Name
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGenerate(summarize(results, names)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&templateID, "template", 0, "Only this template ID")
	cmd.Flags().StringVar(&from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Period end (YYYY-MM-DD)")

	return cmd
}

// lockGenerate takes the generate file lock without waiting.
func (app *App) lockGenerate() (func(), error) {
	if app.LockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(app.LockPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	lock := flock.New(app.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring generate lock: %w", err)
	}
	if !locked {
		return nil, errGenerateRunning
	}
	return func() { _ = lock.Unlock() }, nil
}

func summarize(results []*service.GenerateResult, names map[int64]string) []formatter.GenerateSummary {
	out := make([]formatter.GenerateSummary, 0, len(results))
	for _, res := range results {
		s := formatter.GenerateSummary{Template: names[res.TemplateID], Skipped: res.Skipped}
		if s.Template == "" {
			s.Template = fmt.Sprintf("template %d", res.TemplateID)
		}
		for _, t := range res.Created {
			s.Created = append(s.Created, t.Code)
		}
		for _, f := range res.Failed {
			code := f.Code
			if code == "" {
				code = calendar.Format(f.Date)
			}
			s.Failed = append(s.Failed, formatter.GenerateFailure{Code: code, Err: f.Err})
		}
		out = append(out, s)
	}
	return out
}
