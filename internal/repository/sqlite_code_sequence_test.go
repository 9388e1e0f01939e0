package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/codes"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

func TestCodeSequence_EmptyStartsAtOne(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	seq := NewSQLiteCodeSequenceRepo(database)

	n, err := seq.NextProjectNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = seq.NextProjectNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = seq.NextTopLevelTaskNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "namespaces are independent")
}

// Three top-level tasks exist, so the next one is T-004, and with one
// child already under it the next child is T-004.2.
func TestCodeSequence_TopLevelAndChildScenario(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "RISK PROCESS CONTROL")
	seq := NewSQLiteCodeSequenceRepo(database)

	seedTasks(t, database,
		testutil.NewTestTask(g.ID, "one", testutil.WithTaskCode("T-001")),
		testutil.NewTestTask(g.ID, "two", testutil.WithTaskCode("T-002")),
		testutil.NewTestTask(g.ID, "three", testutil.WithTaskCode("T-003")),
	)

	n, err := seq.NextTopLevelTaskNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "T-004", codes.TopLevelTask(n))

	parent := testutil.NewTestTask(g.ID, "four", testutil.WithTaskCode("T-004"))
	first := testutil.NewTestTask(g.ID, "first child", testutil.WithTaskCode("T-004.1"), testutil.WithParent(parent))
	seedTasks(t, database, parent, first)

	k, err := seq.NextChildNumber(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, "T-004.2", codes.ChildTask(parent.Code, k))
}

func TestCodeSequence_DoesNotReuseAfterDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")
	seq := NewSQLiteCodeSequenceRepo(database)
	tasks := NewSQLiteTaskRepo(database)

	a := testutil.NewTestTask(g.ID, "a", testutil.WithTaskCode("T-001"))
	b := testutil.NewTestTask(g.ID, "b", testutil.WithTaskCode("T-002"))
	seedTasks(t, database, a, b)

	n, err := seq.NextTopLevelTaskNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, tasks.Delete(ctx, a.ID))
	n, err = seq.NextTopLevelTaskNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCodeSequence_RoutineInstancesDoNotCount(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	g := seedGroup(t, database, "G")

	tmpl := testutil.NewTestTemplate(g.ID, "Daily check", "daily")
	require.NoError(t, NewSQLiteTemplateRepo(database).Create(ctx, tmpl))
	routine := testutil.NewTestTask(g.ID, "Daily check (2025-02-03)", testutil.WithTaskCode("BAU-1-20250203"))
	routine.TemplateID = &tmpl.ID
	seedTasks(t, database, routine)

	n, err := NewSQLiteCodeSequenceRepo(database).NextTopLevelTaskNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
