package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

func TestProjectRepo_CRUD(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	creator := testutil.NewTestActor("rina")
	require.NoError(t, NewSQLiteActorRepo(database).Create(ctx, creator))
	repo := NewSQLiteProjectRepo(database)

	p := testutil.NewTestProject(g.ID, "Model validation", testutil.WithProjectCode("P-001"))
	p.CreatedBy = &creator.ID
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByCode(ctx, "p-001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, domain.ProjectRunning, got.Status)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, creator.ID, *got.CreatedBy)

	byName, err := repo.GetByName(ctx, "Model validation")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	got.Status = domain.ProjectOnHold
	got.PlanEnd = calendar.Date(2025, 6, 30)
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ProjectOnHold, list[0].Status)
	assert.Equal(t, calendar.Date(2025, 6, 30), list[0].PlanEnd)

	ok, err := repo.CodeExists(ctx, "P-001")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProjectRepo_CreatorDeletionNullsReference(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	actors := NewSQLiteActorRepo(database)
	creator := testutil.NewTestActor("leaver")
	require.NoError(t, actors.Create(ctx, creator))

	p := testutil.NewTestProject(g.ID, "Orphaned")
	p.CreatedBy = &creator.ID
	repo := NewSQLiteProjectRepo(database)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, actors.Delete(ctx, creator.ID))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CreatedBy)
}
