package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/engine"
	"github.com/DaanHessen/timekit/internal/util"
)

type recordingRunner struct{ calls []string }

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	return nil
}

func (r *recordingRunner) Output(context.Context, string, ...string) ([]byte, error) {
	return []byte("heroku/8.0.0"), nil
}

func testApp(cfg util.Config) (*app, *bytes.Buffer) {
	var out bytes.Buffer
	a := newApp(&out)
	a.clock = clockwork.NewFakeClockAt(time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC))
	a.loadConfig = func() (util.Config, error) { return cfg, nil }
	a.newLogger = func(util.Config, bool) (*zap.Logger, error) { return zap.NewNop(), nil }
	return a, &out
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestVersion(t *testing.T) {
	a, out := testApp(util.Config{})
	require.NoError(t, execute(t, a, "version"))
	assert.Equal(t, "timekit "+version+"\n", out.String())
}

func TestEnvGenerateStdout(t *testing.T) {
	a, out := testApp(util.Config{})
	require.NoError(t, execute(t, a, "env", "generate"))
	assert.True(t, strings.HasPrefix(out.String(), "# Time Management Toolkit - Environment Variables\n# Generated on 2024-05-06 08:00:00\n"))
	assert.Contains(t, out.String(), "# App Configuration\n")
}

func TestEnvGenerateFileWithImport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "existing.env")
	require.NoError(t, os.WriteFile(in, []byte("API_URL=https://example.com\nREACT_APP_NAME=Focus\n"), 0o600))
	target := filepath.Join(dir, "out", ".env.local")

	a, out := testApp(util.Config{})
	require.NoError(t, execute(t, a, "env", "generate", "--import", in, "-o", target))
	assert.Contains(t, out.String(), target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "REACT_APP_NAME=Focus\n")
	assert.Contains(t, string(data), "# Custom Variables\nAPI_URL=https://example.com\n")

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnvCommands(t *testing.T) {
	a, out := testApp(util.Config{})
	require.NoError(t, execute(t, a, "env", "commands"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "heroku config:set "), l)
	}
	assert.NotContains(t, out.String(), "GENERATE_SOURCEMAP")
}

func TestDecideIsDeterministicPerSeed(t *testing.T) {
	a1, out1 := testApp(util.Config{SeedText: "fixed"})
	require.NoError(t, execute(t, a1, "decide", "spin", "alpha", "beta", "gamma"))
	a2, out2 := testApp(util.Config{})
	require.NoError(t, execute(t, a2, "--seed", "fixed", "decide", "spin", "alpha", "beta", "gamma"))
	assert.Equal(t, out1.String(), out2.String())
	assert.True(t, strings.HasPrefix(out1.String(), "🎯 Winner: "))
}

func TestDecideGuards(t *testing.T) {
	a, _ := testApp(util.Config{SeedText: "x"})
	err := execute(t, a, "decide", "spin", "only-one")
	require.ErrorIs(t, err, engine.ErrTooFewTasks)

	a, _ = testApp(util.Config{SeedText: "x"})
	err = execute(t, a, "decide", "8ball")
	require.ErrorIs(t, err, engine.ErrEmptyInput)

	a, out := testApp(util.Config{SeedText: "x"})
	require.NoError(t, execute(t, a, "decide", "flip"))
	assert.Contains(t, []string{engine.CoinHeads, engine.CoinTails}, strings.TrimSpace(out.String()))
}

func TestMigrateNeedsDSN(t *testing.T) {
	for _, action := range []string{"up", "down", "version"} {
		a, _ := testApp(util.Config{})
		err := execute(t, a, "migrate", action)
		require.Error(t, err, action)
		assert.Contains(t, err.Error(), "DSN")
	}
}

func TestDeployHerokuUsesConfigApp(t *testing.T) {
	a, out := testApp(util.Config{HerokuApp: "focus-prod", HerokuBin: "heroku"})
	r := &recordingRunner{}
	a.runner = r
	require.NoError(t, execute(t, a, "deploy", "heroku"))
	require.NotEmpty(t, r.calls)
	assert.Equal(t, "heroku buildpacks:clear --app focus-prod", r.calls[0])
	assert.Equal(t, "heroku config --app focus-prod", r.calls[len(r.calls)-1])
	assert.Contains(t, out.String(), "git push heroku main")
}

func TestDeployHerokuDryRun(t *testing.T) {
	a, out := testApp(util.Config{HerokuBin: "heroku"})
	r := &recordingRunner{}
	a.runner = r
	require.NoError(t, execute(t, a, "deploy", "heroku", "--dry-run", "--app", "staging"))
	assert.Empty(t, r.calls)
	assert.Contains(t, out.String(), "📋 Running: heroku buildpacks:set heroku/nodejs --app staging")
}
