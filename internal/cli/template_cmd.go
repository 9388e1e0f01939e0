package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/service"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage routine task templates",
	}

	cmd.AddCommand(
		newTemplateAddCmd(app),
		newTemplateListCmd(app),
		newTemplateDeleteCmd(app),
	)

	return cmd
}

func newTemplateAddCmd(app *App) *cobra.Command {
	var name, description, frequency, assignee, group string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a routine task template",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			freq, err := domain.ParseFrequency(frequency)
			if err != nil {
				return err
			}
			in := service.CreateTemplateInput{
				Name:              name,
				Description:       description,
				Frequency:         freq,
				DefaultAssigneeID: optional(assignee),
			}
			if in.OwnerGroupID, err = app.groupID(ctx, group); err != nil {
				return err
			}

			tpl, err := app.Templates.Create(ctx, actor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created template %s [%d, %s]\n", tpl.Name, tpl.ID, tpl.Frequency)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Template name")
	cmd.Flags().StringVar(&description, "description", "", "Template description")
	cmd.Flags().StringVar(&frequency, "frequency", "", "daily, weekly, monthly, quarterly or yearly")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Default assignee username")
	cmd.Flags().StringVar(&group, "group", "", "Owner group (default: your primary group)")
	requireFlags(cmd, "name", "frequency")

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			templates, err := app.Templates.List(ctx)
			if err != nil {
				return err
			}
			groups, err := app.groupNames(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplateList(templates, groups))
			return nil
		},
	}
}

func newTemplateDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a template (admin only); generated tasks are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			id, err := parseTemplateID(args[0])
			if err != nil {
				return err
			}
			tpl, err := app.Templates.Get(ctx, id)
			if err != nil {
				return err
			}
			err = confirm(app, yes, fmt.Sprintf("Delete template %q?", tpl.Name))
			if errors.Is(err, errNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := app.Templates.Delete(ctx, actor, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", tpl.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func parseTemplateID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid template ID %q", s)
	}
	return id, nil
}
