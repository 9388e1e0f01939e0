package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

func TestActorRepo_MembershipsAndRole(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	rm := seedGroup(t, database, "RISK MANAGEMENT")
	rpc := seedGroup(t, database, "RISK PROCESS CONTROL")
	repo := NewSQLiteActorRepo(database)

	admin := testutil.NewTestActor("Rina", testutil.WithRole(domain.RoleAdmin), testutil.InGroups(rm))
	require.NoError(t, repo.Create(ctx, admin))
	require.NoError(t, repo.AddMembership(ctx, admin.ID, rpc.ID))
	require.NoError(t, repo.AddMembership(ctx, admin.ID, rpc.ID), "joining twice is a no-op")

	got, err := repo.GetByUsername(ctx, "rina")
	require.NoError(t, err)
	require.NotNil(t, got.Role)
	assert.Equal(t, domain.RoleAdmin, *got.Role)
	require.Len(t, got.Groups, 2)
	assert.Equal(t, "RISK MANAGEMENT", got.Groups[0].Name)
	primary, ok := got.PrimaryGroup()
	assert.True(t, ok)
	assert.Equal(t, rm.ID, primary.ID)
}

func TestActorRepo_NilRoleAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	repo := NewSQLiteActorRepo(database)

	require.NoError(t, repo.Create(ctx, testutil.NewTestActor("budi", testutil.InGroups(g))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestActor("admin", testutil.AsSuperuser())))

	actors, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, actors, 2)
	assert.Equal(t, "admin", actors[0].Username)
	assert.True(t, actors[0].Superuser)
	assert.Nil(t, actors[1].Role)
	assert.Equal(t, domain.RoleMember, actors[1].EffectiveRole())
	require.Len(t, actors[1].Groups, 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestActorRepo_DeleteClearsAssignee(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	repo := NewSQLiteActorRepo(database)
	a := testutil.NewTestActor("leaver")
	require.NoError(t, repo.Create(ctx, a))

	task := testutil.NewTestTask(g.ID, "assigned", testutil.AssignedTo(a.ID))
	seedTasks(t, database, task)
	tmpl := testutil.NewTestTemplate(g.ID, "Weekly report", domain.FrequencyWeekly)
	tmpl.DefaultAssigneeID = &a.ID
	templates := NewSQLiteTemplateRepo(database)
	require.NoError(t, templates.Create(ctx, tmpl))

	require.NoError(t, repo.Delete(ctx, a.ID))

	got, err := NewSQLiteTaskRepo(database).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssigneeID)
	gotTmpl, err := templates.GetByID(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Nil(t, gotTmpl.DefaultAssigneeID)
}

func TestGroupRepo_CaseInsensitiveName(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "Risk Process Control")
	repo := NewSQLiteGroupRepo(database)

	got, err := repo.GetByName(ctx, "RISK PROCESS CONTROL")
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)

	assert.Error(t, repo.Create(ctx, testutil.NewTestGroup("risk process control")))

	var nf *domain.NotFoundError
	_, err = repo.GetByName(ctx, "TREASURY")
	assert.ErrorAs(t, err, &nf)
}
