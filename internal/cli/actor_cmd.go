package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/service"
)

func newActorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actor",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(
		newActorAddCmd(app),
		newActorListCmd(app),
		newActorJoinCmd(app),
	)

	return cmd
}

func newActorAddCmd(app *App) *cobra.Command {
	var fullName, role string
	var superuser bool
	var groups []string

	cmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Create an account",
		Long: `Create an account. On an empty database the first account needs no
--as user; afterwards only admins and superusers may add accounts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			by, err := app.optionalActor(ctx)
			if err != nil {
				return err
			}
			in := service.CreateActorInput{
				Username:  args[0],
				FullName:  fullName,
				Superuser: superuser,
				Groups:    groups,
			}
			if role != "" {
				r, err := domain.ParseRole(role)
				if err != nil {
					return err
				}
				in.Role = &r
			}

			a, err := app.Actors.Create(ctx, by, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s)\n", a.Username, a.EffectiveRole())
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&role, "role", "", "Role: admin, leader or member")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "Grant superuser")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group name (repeatable)")

	return cmd
}

func newActorListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			actors, err := app.Actors.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActorList(actors))
			return nil
		},
	}
}

func newActorJoinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "join USERNAME GROUP",
		Short: "Add an account to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			by, err := app.actor(ctx)
			if err != nil {
				return err
			}
			a, err := app.Actors.AddToGroup(ctx, by, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now in %d group(s)\n", a.Username, len(a.Groups))
			return nil
		},
	}
}

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Create a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				by, err := app.optionalActor(ctx)
				if err != nil {
					return err
				}
				g, err := app.Actors.CreateGroup(ctx, by, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %s\n", g.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List groups",
			RunE: func(cmd *cobra.Command, args []string) error {
				groups, err := app.Actors.ListGroups(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGroupList(groups))
				return nil
			},
		},
	)

	return cmd
}
