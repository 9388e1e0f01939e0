package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/awsbudi/risk-tracker/internal/service"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskProgressCmd(app),
		newTaskRescheduleCmd(app),
		newTaskDeleteCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		name, kind, project, parent, dependsOn, assignee string
		requestedBy, start, due, group, status           string
		progress                                         int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Long: `Create a task. Sub-tasks (--parent) take the kind and project of their
parent. Project tasks need --project, ad-hoc tasks need --requested-by.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}

			in := service.CreateTaskInput{
				Name:        name,
				ProjectID:   optional(project),
				ParentID:    optional(parent),
				DependsOnID: optional(dependsOn),
				AssigneeID:  optional(assignee),
				RequestedBy: requestedBy,
				Progress:    progress,
			}
			if kind != "" {
				if in.Kind, err = domain.ParseTaskKind(kind); err != nil {
					return err
				}
			}
			if status != "" {
				if in.Status, err = domain.ParseTaskStatus(status); err != nil {
					return err
				}
			}
			if in.PlanStart, err = parseDateFlag("start", start); err != nil {
				return err
			}
			if in.PlanDue, err = parseDateFlag("due", due); err != nil {
				return err
			}
			if in.OwnerGroupID, err = app.groupID(ctx, group); err != nil {
				return err
			}

			t, err := app.Tasks.Create(ctx, actor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s [%s]\n", t.Name, t.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&kind, "kind", "", "Kind: project, routine or adhoc")
	cmd.Flags().StringVar(&project, "project", "", "Project code")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task code")
	cmd.Flags().StringVar(&dependsOn, "depends-on", "", "Predecessor task code")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee username")
	cmd.Flags().StringVar(&requestedBy, "requested-by", "", "Requester (ad-hoc tasks)")
	cmd.Flags().StringVar(&start, "start", "", "Plan start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Plan due (YYYY-MM-DD)")
	cmd.Flags().StringVar(&group, "group", "", "Owner group (default: parent's, then your primary group)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (default todo)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Initial progress 0-100")
	requireFlags(cmd, "name", "start", "due")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project, assignee, group, kind, status string
	var topLevel bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks you can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}

			f := repository.TaskFilter{TopLevelOnly: topLevel}
			if project != "" {
				p, err := app.Projects.Get(ctx, actor, project)
				if err != nil {
					return err
				}
				f.ProjectID = p.ID
			}
			if assignee != "" {
				a, err := app.Actors.Get(ctx, assignee)
				if err != nil {
					return err
				}
				f.AssigneeID = a.ID
			}
			if f.OwnerGroupID, err = app.groupID(ctx, group); err != nil {
				return err
			}
			if kind != "" {
				if f.Kind, err = domain.ParseTaskKind(kind); err != nil {
					return err
				}
			}
			if status != "" {
				if f.Status, err = domain.ParseTaskStatus(status); err != nil {
					return err
				}
			}

			tasks, err := app.Visibility.ListTasks(ctx, actor, f)
			if err != nil {
				return err
			}
			names, err := app.actorNames(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only tasks of this project")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Only tasks assigned to this username")
	cmd.Flags().StringVar(&group, "group", "", "Only tasks owned by this group")
	cmd.Flags().StringVar(&kind, "kind", "", "Only tasks of this kind")
	cmd.Flags().StringVar(&status, "status", "", "Only tasks with this status")
	cmd.Flags().BoolVar(&topLevel, "top-level", false, "Hide sub-tasks")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show CODE",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, actor, args[0])
			if err != nil {
				return err
			}
			names, err := app.actorNames(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskDetail(t, names))
			return nil
		},
	}
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress CODE PERCENT",
		Short: "Record task progress; 100 completes the task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid progress %q: want a whole number", args[1])
			}
			t, err := app.Tasks.UpdateProgress(ctx, actor, args[0], pct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", formatter.Bold(t.Code),
				formatter.RenderProgress(t.Progress, 20), formatter.TaskStatusPill(t.Status))
			return nil
		},
	}
}

func newTaskRescheduleCmd(app *App) *cobra.Command {
	var start, due string

	cmd := &cobra.Command{
		Use:   "reschedule CODE",
		Short: "Move a task and push dependents that would start too early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			newStart, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			newDue, err := parseDateFlag("due", due)
			if err != nil {
				return err
			}
			res, err := app.Tasks.Reschedule(ctx, actor, args[0], newStart, newDue)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReschedule(res.Updated, formatter.FailedShifts(res.Failed)))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New plan start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "New plan due (YYYY-MM-DD)")
	requireFlags(cmd, "start", "due")

	return cmd
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete CODE",
		Aliases: []string{"rm"},
		Short:   "Delete a task (admin only)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, actor, args[0])
			if err != nil {
				return err
			}
			err = confirm(app, yes, fmt.Sprintf("Delete task %s?", t.Code))
			if errors.Is(err, errNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, actor, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", t.Code)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
