package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
	"github.com/awsbudi/risk-tracker/internal/seed"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load groups, accounts, templates, projects and tasks from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			by, err := app.optionalActor(ctx)
			if err != nil {
				return err
			}
			doc, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}
			report, err := seed.Apply(ctx, seed.Services{
				Actors:    app.Actors,
				Templates: app.Templates,
				Projects:  app.Projects,
				Tasks:     app.Tasks,
			}, by, doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded %d groups, %d accounts, %d templates, %d projects, %d tasks\n",
				report.Groups, report.Actors, report.Templates, report.Projects, report.Tasks)
			for _, re := range report.Errors {
				fmt.Fprintf(out, "  %s %s[%d] %s\n", formatter.StyleAlert.Render("✖"), re.Section, re.Index, re.Name)
				for _, line := range formatter.ErrorLines(re.Err) {
					fmt.Fprintf(out, "      %s\n", line)
				}
			}
			return nil
		},
	}
}
