package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Tasks      service.TaskService
	Templates  service.TemplateService
	Recurrence service.RecurrenceService
	Visibility service.VisibilityService
	Actors     service.ActorService

	// DefaultUser acts when --as is not given.
	DefaultUser string
	// LockPath guards generate runs. Empty disables the lock.
	LockPath string

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	// Setup, when set, runs before every command with the --config value
	// and fills in the services above.
	Setup func(configPath string) error

	as         string
	configPath string
}

// NewRootCmd creates the top-level "risktracker" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "risktracker",
		Short:         "Risk-team project and task tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup == nil {
				return nil
			}
			return app.Setup(app.configPath)
		},
	}
	root.PersistentFlags().StringVar(&app.as, "as", "", "Username to act as")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default ~/.risktracker/config.yaml)")

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newTemplateCmd(app),
		newGenerateCmd(app),
		newActorCmd(app),
		newGroupCmd(app),
		newSeedCmd(app),
	)

	return root
}

func (app *App) username() string {
	if u := strings.TrimSpace(app.as); u != "" {
		return u
	}
	return strings.TrimSpace(app.DefaultUser)
}

// actor resolves the acting user. Every command except account bootstrap
// needs one.
func (app *App) actor(ctx context.Context) (*domain.Actor, error) {
	u := app.username()
	if u == "" {
		return nil, errors.New("no acting user: pass --as <username> or set RISKTRACKER_USER")
	}
	a, err := app.Actors.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("resolving acting user: %w", err)
	}
	return a, nil
}

// optionalActor is actor for commands that may run on an empty database.
func (app *App) optionalActor(ctx context.Context) (*domain.Actor, error) {
	if app.username() == "" {
		return nil, nil
	}
	return app.actor(ctx)
}

// groupID resolves a group name or ID. Empty stays empty so services can
// apply their own default.
func (app *App) groupID(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}
	groups, err := app.Actors.ListGroups(ctx)
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		if g.ID == key || strings.EqualFold(g.Name, key) {
			return g.ID, nil
		}
	}
	return "", &domain.NotFoundError{Entity: "group", Key: key}
}

func (app *App) groupNames(ctx context.Context) (map[string]string, error) {
	groups, err := app.Actors.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(groups))
	for _, g := range groups {
		out[g.ID] = g.Name
	}
	return out, nil
}

func (app *App) actorNames(ctx context.Context) (map[string]string, error) {
	actors, err := app.Actors.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(actors))
	for _, a := range actors {
		out[a.ID] = a.DisplayName()
	}
	return out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
