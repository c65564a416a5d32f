package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TIMEKIT_CONFIG", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TIMEKIT_DATABASE_DSN", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "catppuccin", cfg.Theme)
	assert.Equal(t, "heroku", cfg.HerokuBin)
	assert.Equal(t, 40.0, cfg.CapacityHours)
	assert.Equal(t, filepath.Join(home, ".timekit", "exports"), cfg.ExportDir)
	assert.Empty(t, cfg.DSN)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "timekit.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"dracula\"\nseed = \"abc\"\n\n[capacity]\nhours = 32\n"), 0o600))
	t.Setenv("TIMEKIT_CONFIG", path)
	t.Setenv("TIMEKIT_HEROKU_APP", "focus-prod")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/timekit")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.Equal(t, "abc", cfg.SeedText)
	assert.Equal(t, 32.0, cfg.CapacityHours)
	assert.Equal(t, "focus-prod", cfg.HerokuApp)
	assert.Equal(t, "postgres://u:p@localhost/timekit", cfg.DSN)
}

func TestLoadRejectsBadFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui\ntheme = "), 0o600))
	t.Setenv("TIMEKIT_CONFIG", path)
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadCapacity(t *testing.T) {
	isolate(t)
	for _, v := range []string{"500", "0", "NaN", "Inf"} {
		t.Setenv("TIMEKIT_CAPACITY_HOURS", v)
		_, err := Load()
		require.Error(t, err, v)
	}
}
