package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/awsbudi/risk-tracker/internal/service"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectDeleteCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, description, start, end, group, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			in := service.CreateProjectInput{Name: name, Description: description}
			if in.PlanStart, err = parseDateFlag("start", start); err != nil {
				return err
			}
			if in.PlanEnd, err = parseDateFlag("end", end); err != nil {
				return err
			}
			if status != "" {
				if in.Status, err = domain.ParseProjectStatus(status); err != nil {
					return err
				}
			}
			if in.OwnerGroupID, err = app.groupID(ctx, group); err != nil {
				return err
			}

			p, err := app.Projects.Create(ctx, actor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&start, "start", "", "Plan start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Plan end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&group, "group", "", "Owner group (default: your primary group)")
	cmd.Flags().StringVar(&status, "status", "", "Status: running, on_hold, dropped or done")
	requireFlags(cmd, "name", "start", "end")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the projects you can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			projects, err := app.Visibility.ListProjects(ctx, actor)
			if err != nil {
				return err
			}
			groups, err := app.groupNames(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects, groups))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show CODE",
		Short: "Show a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(ctx, actor, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Visibility.ListTasks(ctx, actor, repository.TaskFilter{ProjectID: p.ID})
			if err != nil {
				return err
			}
			groups, err := app.groupNames(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, tasks, groups))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, description, status string

	cmd := &cobra.Command{
		Use:   "update CODE",
		Short: "Change project fields (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}

			var in service.UpdateProjectInput
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			for flag, dst := range map[string]**time.Time{
				"start":        &in.PlanStart,
				"end":          &in.PlanEnd,
				"actual-start": &in.ActualStart,
				"actual-end":   &in.ActualEnd,
			} {
				if *dst, err = changedDate(flags, flag); err != nil {
					return err
				}
			}
			if flags.Changed("status") {
				s, err := domain.ParseProjectStatus(status)
				if err != nil {
					return err
				}
				in.Status = &s
			}

			p, err := app.Projects.Update(ctx, actor, args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", p.Name, p.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().String("start", "", "Plan start (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Plan end (YYYY-MM-DD)")
	cmd.Flags().String("actual-start", "", "Actual start (YYYY-MM-DD)")
	cmd.Flags().String("actual-end", "", "Actual end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Status: running, on_hold, dropped or done")

	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete CODE",
		Aliases: []string{"rm"},
		Short:   "Delete a project and every task in it (admin only)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(ctx, actor, args[0])
			if err != nil {
				return err
			}
			err = confirm(app, yes, fmt.Sprintf("Delete project %s and all its tasks?", p.Code))
			if errors.Is(err, errNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, actor, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.Code)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
