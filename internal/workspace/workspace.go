package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"github.com/google/uuid"
)

// TempPath owns a file or directory that is removed on Release unless
// removal was disabled.
type TempPath struct {
	path   string
	dir    bool
	remove bool
}

// NewFile guards an existing (or soon to exist) file.
func NewFile(path string, remove bool) *TempPath {
	return &TempPath{path: path, remove: remove}
}

// NewDir guards a directory; Release removes it recursively.
func NewDir(path string, remove bool) *TempPath {
	return &TempPath{path: path, dir: true, remove: remove}
}

// MakeTempDir creates a uniquely named hidden directory next to near, e.g.
// for near=out/book.pdf it creates out/.book-1a2b3c4d.tmp.
func MakeTempDir(near string, remove bool) (*TempPath, error) {
	parent := filepath.Dir(near)
	stem := stemOf(near)
	for attempt := 0; attempt < 3; attempt++ {
		name := fmt.Sprintf(".%s-%s.tmp", stem, uuid.NewString()[:8])
		path := filepath.Join(parent, name)
		err := os.Mkdir(path, 0o750)
		if err == nil {
			slog.Debug("Created scratch directory", logfields.Path(path))
			return NewDir(path, remove), nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to create scratch directory next to %s: name collisions", near)
}

// Path returns the guarded path.
func (t *TempPath) Path() string { return t.path }

// Removes reports whether Release will delete the path.
func (t *TempPath) Removes() bool { return t.remove }

// SetRemove changes whether Release deletes the path.
func (t *TempPath) SetRemove(remove bool) { t.remove = remove }

// Stem returns the file name without its last extension.
func (t *TempPath) Stem() string { return stemOf(t.path) }

// JoinStem builds <path>/<stem><ext>. It is used on the scratch directory to
// find the engine's output files that share the source file's stem.
func (t *TempPath) JoinStem(stem, ext string) string {
	return filepath.Join(t.path, stem+ext)
}

// Release deletes the path if removal is enabled. A path that no longer
// exists is not an error. Release is idempotent.
func (t *TempPath) Release() error {
	if t == nil || !t.remove || t.path == "" {
		return nil
	}

	var err error
	if t.dir {
		err = os.RemoveAll(t.path)
	} else {
		err = os.Remove(t.path)
		if os.IsNotExist(err) {
			err = nil
		}
	}
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", t.path, err)
	}

	slog.Debug("Removed temporary path", logfields.Path(t.path))
	t.remove = false
	return nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
