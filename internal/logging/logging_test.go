package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "timekit.log")
	logger, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debug("spin", zap.String("winner", "inbox"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"msg":"spin"`)
	assert.Contains(t, line, `"winner":"inbox"`)
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timekit.log")
	logger, err := New(Options{Level: "chatty", File: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestDefaultFile(t *testing.T) {
	assert.Equal(t, "timekit.log", filepath.Base(DefaultFile()))
}
