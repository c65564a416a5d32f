// Package export writes generated text to disk and to the system clipboard.
package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// DefaultDir returns $HOME/.timekit/exports.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".timekit", "exports")
}

// Writer saves named files into a single directory.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Writer{Dir: dir}
}

// Write stores content under name and returns the full path.
// Names are reduced to their base so callers cannot escape Dir.
func (w *Writer) Write(name, content string) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", errors.New("export: empty file name")
	}
	if err := os.MkdirAll(w.Dir, 0o700); err != nil {
		return "", errors.Wrap(err, "export: create dir")
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", errors.Wrapf(err, "export: write %s", name)
	}
	return path, nil
}

// Clipboard copies text for pasting elsewhere.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard uses the OS clipboard (pbcopy, xclip, xsel, wl-copy or the Windows API).
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard unsupported on this system")
	}
	return errors.Wrap(clipboard.WriteAll(text), "clipboard")
}
