package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/db"
)

func tableNames(t *testing.T, path string) []string {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	rows, err := database.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name <> 'goose_db_version' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestOpenDB_CreatesSchema(t *testing.T) {
	assert.Equal(t, []string{
		"actors", "audit_log", "code_sequences", "memberships",
		"org_groups", "projects", "task_templates", "tasks",
	}, tableNames(t, db.MemoryPath))
}

func TestOpenDB_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tracker.db")

	first := tableNames(t, path)
	second := tableNames(t, path)
	assert.Equal(t, first, second)

	database, err := db.OpenDB(path)
	require.NoError(t, err)
	defer database.Close()
	v, err := db.SchemaVersion(context.Background(), database)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestOpenDB_ForeignKeysEnforced(t *testing.T) {
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	var on int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	_, err = database.Exec(`INSERT INTO memberships (actor_id, group_id, joined_at) VALUES ('nobody', 'nothing', '2025-01-01')`)
	assert.Error(t, err)
}
