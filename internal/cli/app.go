package cli

import (
	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/awsbudi/risk-tracker/internal/service"
)

// NewApp wires every service against one database. opts apply to all of
// them.
func NewApp(conn db.DBTX, uow db.UnitOfWork, opts ...service.Option) *App {
	projects := repository.NewSQLiteProjectRepo(conn)
	tasks := repository.NewSQLiteTaskRepo(conn)
	templates := repository.NewSQLiteTemplateRepo(conn)
	groups := repository.NewSQLiteGroupRepo(conn)
	actors := repository.NewSQLiteActorRepo(conn)

	return &App{
		Projects:   service.NewProjectService(projects, groups, uow, opts...),
		Tasks:      service.NewTaskService(tasks, groups, uow, opts...),
		Templates:  service.NewTemplateService(templates, uow, opts...),
		Recurrence: service.NewRecurrenceService(templates, uow, opts...),
		Visibility: service.NewVisibilityService(tasks, projects, groups, opts...),
		Actors:     service.NewActorService(actors, groups, uow, opts...),
	}
}

// SetServices copies the services of src into app, keeping app's settings.
func (app *App) SetServices(src *App) {
	app.Projects = src.Projects
	app.Tasks = src.Tasks
	app.Templates = src.Templates
	app.Recurrence = src.Recurrence
	app.Visibility = src.Visibility
	app.Actors = src.Actors
}
