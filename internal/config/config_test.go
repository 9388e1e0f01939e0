package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/access"
	"github.com/awsbudi/risk-tracker/internal/validate"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".risktracker", "risktracker.db"), cfg.DB)
	assert.Equal(t, validate.BoundarySameDay, cfg.Boundary())
	assert.Equal(t, access.DefaultHierarchy(), cfg.Hierarchy())
	assert.False(t, cfg.Log.Calls)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
db: /tmp/tracker.db
log:
  level: debug
  format: json
schedule:
  dependency_boundary: strict
access:
  hierarchy:
    FINANCE: [TREASURY, TAX]
`)
	t.Setenv("RISKTRACKER_DB", "/srv/override.db")
	t.Setenv("RISKTRACKER_LOG_CALLS", "true")
	t.Setenv("RISKTRACKER_USER", "rina")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/override.db", cfg.DB, "env wins over file")
	assert.True(t, cfg.Log.Calls)
	assert.Equal(t, "rina", cfg.User)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, validate.BoundaryStrict, cfg.Boundary())

	h := cfg.Hierarchy()
	require.Len(t, h, 1)
	for _, subs := range h {
		assert.Equal(t, []string{"TREASURY", "TAX"}, subs)
	}
}

func TestLoad_HomeConfigPickedUp(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".risktracker")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: warn\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Rejects(t *testing.T) {
	isolate(t)
	cases := map[string]string{
		"boundary": "schedule:\n  dependency_boundary: sometimes\n",
		"format":   "log:\n  format: xml\n",
		"level":    "log:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicit path must exist")
}
