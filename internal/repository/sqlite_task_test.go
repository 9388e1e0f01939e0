package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

func TestTaskRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	project := testutil.NewTestProject(g.ID, "Model validation")
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, project))

	end := calendar.Date(2025, 2, 6)
	task := testutil.NewTestTask(g.ID, "Collect data",
		testutil.InProject(project.ID),
		testutil.WithWindow(calendar.Date(2025, 2, 3), calendar.Date(2025, 2, 7)),
		testutil.WithStatus(domain.TaskDone, 100),
	)
	task.ActualEnd = &end
	repo := NewSQLiteTaskRepo(database)
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Code, got.Code)
	assert.Equal(t, domain.TaskKindProject, got.Kind)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, project.ID, *got.ProjectID)
	assert.Equal(t, calendar.Date(2025, 2, 3), got.PlanStart)
	assert.Equal(t, calendar.Date(2025, 2, 7), got.PlanDue)
	require.NotNil(t, got.ActualEnd)
	assert.Equal(t, end, *got.ActualEnd)
	assert.Nil(t, got.ParentID)
	assert.Equal(t, 100, got.Progress)

	byCode, err := repo.GetByCode(ctx, task.Code)
	require.NoError(t, err)
	assert.Equal(t, task.ID, byCode.ID)
}

func TestTaskRepo_GetMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := NewSQLiteTaskRepo(database).GetByCode(context.Background(), "T-999")

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "task", nf.Entity)
	assert.Equal(t, "T-999", nf.Key)
}

func TestTaskRepo_DuplicateCodeRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	repo := NewSQLiteTaskRepo(database)

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(g.ID, "a", testutil.WithTaskCode("T-001"))))
	assert.Error(t, repo.Create(ctx, testutil.NewTestTask(g.ID, "b", testutil.WithTaskCode("T-001"))))

	ok, err := repo.CodeExists(ctx, "T-001")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTaskRepo_ListFilters(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g1 := seedGroup(t, database, "G1")
	g2 := seedGroup(t, database, "G2")
	actor := testutil.NewTestActor("rina")
	require.NoError(t, NewSQLiteActorRepo(database).Create(ctx, actor))

	parent := testutil.NewTestTask(g1.ID, "parent", testutil.WithTaskCode("T-001"))
	child := testutil.NewTestTask(g1.ID, "child", testutil.WithTaskCode("T-001.1"), testutil.WithParent(parent))
	mine := testutil.NewTestTask(g2.ID, "mine", testutil.WithTaskCode("T-002"), testutil.AssignedTo(actor.ID),
		testutil.WithStatus(domain.TaskInProgress, 20))
	seedTasks(t, database, parent, child, mine)
	repo := NewSQLiteTaskRepo(database)

	all, err := repo.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	top, err := repo.List(ctx, TaskFilter{TopLevelOnly: true})
	require.NoError(t, err)
	assert.Len(t, top, 2)

	assigned, err := repo.List(ctx, TaskFilter{AssigneeID: actor.ID, Status: domain.TaskInProgress})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "T-002", assigned[0].Code)

	inG1, err := repo.List(ctx, TaskFilter{OwnerGroupID: g1.ID})
	require.NoError(t, err)
	assert.Len(t, inG1, 2)

	children, err := repo.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "T-001.1", children[0].Code)
}

func TestTaskRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	task := testutil.NewTestTask(g.ID, "a")
	seedTasks(t, database, task)
	repo := NewSQLiteTaskRepo(database)

	task.Reschedule(calendar.Date(2025, 2, 10), calendar.Date(2025, 2, 14))
	task.ApplyProgress(50, calendar.Date(2025, 2, 10))
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.Date(2025, 2, 10), got.PlanStart)
	assert.Equal(t, domain.TaskInProgress, got.Status)
	assert.Equal(t, 50, got.Progress)

	ghost := testutil.NewTestTask(g.ID, "ghost")
	var nf *domain.NotFoundError
	assert.ErrorAs(t, repo.Update(ctx, ghost), &nf)
}

func TestTaskRepo_DeleteLeavesWeakLinksNull(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")

	parent := testutil.NewTestTask(g.ID, "parent", testutil.WithWindow(calendar.Date(2025, 2, 3), calendar.Date(2025, 2, 14)))
	child := testutil.NewTestTask(g.ID, "child", testutil.WithParent(parent))
	successor := testutil.NewTestTask(g.ID, "successor", testutil.DependsOn(parent),
		testutil.WithWindow(calendar.Date(2025, 2, 14), calendar.Date(2025, 2, 17)))
	seedTasks(t, database, parent, child, successor)
	repo := NewSQLiteTaskRepo(database)

	require.NoError(t, repo.Delete(ctx, parent.ID))

	gotChild, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, gotChild.ParentID)
	assert.Equal(t, child.Code, gotChild.Code)

	gotSucc, err := repo.GetByID(ctx, successor.ID)
	require.NoError(t, err)
	assert.Nil(t, gotSucc.DependsOnID)
}

func TestProjectRepo_DeleteCascadesToTasks(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	projects := NewSQLiteProjectRepo(database)

	project := testutil.NewTestProject(g.ID, "Model validation")
	require.NoError(t, projects.Create(ctx, project))
	inside := testutil.NewTestTask(g.ID, "inside", testutil.InProject(project.ID))
	outside := testutil.NewTestTask(g.ID, "outside")
	seedTasks(t, database, inside, outside)

	require.NoError(t, projects.Delete(ctx, project.ID))

	tasks := NewSQLiteTaskRepo(database)
	_, err := tasks.GetByID(ctx, inside.ID)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
	_, err = tasks.GetByID(ctx, outside.ID)
	assert.NoError(t, err)
}
