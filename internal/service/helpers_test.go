package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

// fixedNow is Monday 2025-02-10, a week after testutil.Monday.
var fixedNow = time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func d(month time.Month, day int) time.Time { return calendar.Date(2025, month, day) }

func strPtr(s string) *string { return &s }

type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	tasks     *repository.SQLiteTaskRepo
	projects  *repository.SQLiteProjectRepo
	groups    *repository.SQLiteGroupRepo
	actors    *repository.SQLiteActorRepo
	templates *repository.SQLiteTemplateRepo
	audit     *repository.SQLiteAuditRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		tasks:     repository.NewSQLiteTaskRepo(database),
		projects:  repository.NewSQLiteProjectRepo(database),
		groups:    repository.NewSQLiteGroupRepo(database),
		actors:    repository.NewSQLiteActorRepo(database),
		templates: repository.NewSQLiteTemplateRepo(database),
		audit:     repository.NewSQLiteAuditRepo(database),
	}
}

func (e *testEnv) group(t *testing.T, name string) *domain.Group {
	t.Helper()
	g := testutil.NewTestGroup(name)
	require.NoError(t, e.groups.Create(context.Background(), g))
	return g
}

func (e *testEnv) actor(t *testing.T, username string, opts ...testutil.ActorOption) *domain.Actor {
	t.Helper()
	a := testutil.NewTestActor(username, opts...)
	require.NoError(t, e.actors.Create(context.Background(), a))
	return a
}

func (e *testEnv) taskService(opts ...Option) TaskService {
	return NewTaskService(e.tasks, e.groups, e.uow, append([]Option{WithClock(fixedClock)}, opts...)...)
}

func (e *testEnv) projectService(opts ...Option) ProjectService {
	return NewProjectService(e.projects, e.groups, e.uow, append([]Option{WithClock(fixedClock)}, opts...)...)
}

func (e *testEnv) reload(t *testing.T, id string) *domain.Task {
	t.Helper()
	got, err := e.tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return got
}

// adhocInput is an ad-hoc task input spanning [start, due].
func adhocInput(name string, start, due time.Time) CreateTaskInput {
	return CreateTaskInput{
		Name:        name,
		Kind:        domain.TaskKindAdHoc,
		RequestedBy: "ops",
		PlanStart:   start,
		PlanDue:     due,
	}
}

// recordingObserver keeps every reported use case.
type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}
