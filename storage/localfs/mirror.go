// Package localfs mirrors note bodies into a directory as <id>.md files.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"notes-server/models"
	"notes-server/storage"

	"github.com/natefinch/atomic"
)

const (
	// Extension is appended to the note id to form the mirror file name
	Extension = ".md"

	filePerms = 0o644
	dirPerms  = 0o755
)

var _ storage.Mirror = (*Mirror)(nil)

type Mirror struct {
	dir   string
	chmod func(name string, mode os.FileMode) error
}

// New returns a mirror rooted at dir, creating the directory if needed
func New(dir string) (*Mirror, error) {
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("failed to create mirror directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mirror directory: %w", err)
	}

	return &Mirror{dir: abs, chmod: os.Chmod}, nil
}

func (m *Mirror) Dir() string {
	return m.dir
}

// Path returns the file that holds the body of note id
func (m *Mirror) Path(id int64) string {
	return filepath.Join(m.dir, strconv.FormatInt(id, 10)+Extension)
}

func (m *Mirror) Write(ctx context.Context, id int64, body string) error {
	if err := ctx.Err(); err != nil {
		return &models.MirrorError{Op: "write", ID: id, Err: err}
	}

	path := m.Path(id)
	if err := atomic.WriteFile(path, strings.NewReader(body)); err != nil {
		return &models.MirrorError{Op: "write", ID: id, Err: err}
	}

	m.fixMode(path)
	return nil
}

// fixMode widens the 0600 temp-file mode atomic.WriteFile leaves on new files.
// The body is already in place, so a failure here does not fail the write;
// the next write of the same id retries it.
func (m *Mirror) fixMode(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm() == filePerms {
		return
	}
	_ = m.chmod(path, filePerms)
}

func (m *Mirror) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return &models.MirrorError{Op: "remove", ID: id, Err: err}
	}

	if err := os.Remove(m.Path(id)); err != nil {
		return &models.MirrorError{Op: "remove", ID: id, Err: err}
	}

	return nil
}

func (m *Mirror) Read(ctx context.Context, id int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &models.MirrorError{Op: "read", ID: id, Err: err}
	}

	data, err := os.ReadFile(m.Path(id))
	if err != nil {
		return "", &models.MirrorError{Op: "read", ID: id, Err: err}
	}

	return string(data), nil
}

// List returns the ids of all <id>.md files in ascending order. Other entries are ignored.
func (m *Mirror) List(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, &models.MirrorError{Op: "list", Err: err}
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, &models.MirrorError{Op: "list", Err: err}
	}

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		id, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// IsNotExist reports whether err is a mirror error caused by a missing file
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func parseName(name string) (int64, bool) {
	stem, found := strings.CutSuffix(name, Extension)
	if !found || stem == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(stem, 10, 64)
	if err != nil || id <= 0 || strconv.FormatInt(id, 10) != stem {
		return 0, false
	}

	return id, true
}
