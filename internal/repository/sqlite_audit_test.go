package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

func TestAuditRepo_AppendAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	actor := testutil.NewTestActor("rina")
	require.NoError(t, NewSQLiteActorRepo(database).Create(ctx, actor))
	repo := NewSQLiteAuditRepo(database)

	require.NoError(t, repo.Append(ctx, &domain.AuditEntry{ActorID: &actor.ID, Action: domain.AuditCreate, TargetModel: "Task", TargetCode: "T-001"}))
	require.NoError(t, repo.Append(ctx, &domain.AuditEntry{ActorID: &actor.ID, Action: domain.AuditUpdate, TargetModel: "Task", TargetCode: "T-001", Details: "progress 50"}))
	require.NoError(t, repo.Append(ctx, &domain.AuditEntry{Action: domain.AuditCreate, TargetModel: "Project", TargetCode: "P-001"}))

	entries, err := repo.ListByTarget(ctx, "Task", "T-001")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditUpdate, entries[1].Action)
	assert.Equal(t, "progress 50", entries[1].Details)
	assert.False(t, entries[0].CreatedAt.IsZero())

	latest, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "P-001", latest[0].TargetCode)
	assert.Nil(t, latest[0].ActorID)
}
