package export

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterCreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	w := NewWriter(dir)
	path, err := w.Write("decision-magic-results.txt", "hello\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "decision-magic-results.txt"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestWriterStaysInDir(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	path, err := w.Write("../../escape.txt", "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.txt"), path)

	_, err = w.Write("  ", "x")
	require.Error(t, err)
}

func TestDefaultDir(t *testing.T) {
	assert.Equal(t, filepath.Join(".timekit", "exports"), filepath.Join(filepath.Base(filepath.Dir(DefaultDir())), filepath.Base(DefaultDir())))
	assert.Equal(t, DefaultDir(), NewWriter("").Dir)
}
