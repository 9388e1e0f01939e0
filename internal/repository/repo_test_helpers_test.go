package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

// seedGroup stores a group and returns it.
func seedGroup(t *testing.T, database *sql.DB, name string) *domain.Group {
	t.Helper()
	g := testutil.NewTestGroup(name)
	require.NoError(t, NewSQLiteGroupRepo(database).Create(context.Background(), g))
	return g
}

func seedTasks(t *testing.T, database *sql.DB, tasks ...*domain.Task) {
	t.Helper()
	repo := NewSQLiteTaskRepo(database)
	for _, tk := range tasks {
		require.NoError(t, repo.Create(context.Background(), tk))
	}
}
