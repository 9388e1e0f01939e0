package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

func TestTemplateRepo_CreateAssignsIntegerIDs(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	repo := NewSQLiteTemplateRepo(database)

	first := testutil.NewTestTemplate(g.ID, "Daily KRI", domain.FrequencyDaily)
	second := testutil.NewTestTemplate(g.ID, "Quarterly review", domain.FrequencyQuarterly)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.FrequencyQuarterly, list[1].Frequency)
}

func TestTemplateRepo_DeleteKeepsInstances(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	repo := NewSQLiteTemplateRepo(database)
	tmpl := testutil.NewTestTemplate(g.ID, "Daily KRI", domain.FrequencyDaily)
	require.NoError(t, repo.Create(ctx, tmpl))

	inst := testutil.NewTestTask(g.ID, "Daily KRI (2025-02-03)", testutil.WithTaskCode("BAU-1-20250203"))
	inst.TemplateID = &tmpl.ID
	seedTasks(t, database, inst)

	require.NoError(t, repo.Delete(ctx, tmpl.ID))
	got, err := NewSQLiteTaskRepo(database).GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TemplateID)

	var nf *domain.NotFoundError
	assert.ErrorAs(t, repo.Delete(ctx, tmpl.ID), &nf)
}
