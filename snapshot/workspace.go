package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Workspace is an isolated project root a single case is verified in.
type Workspace struct {
	Root  string
	RunID string

	temporary bool
}

// OpenWorkspace uses root as the workspace, creating it when needed. The
// caller owns the directory.
func OpenWorkspace(root string) (*Workspace, error) {
	if root == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating workspace %s", root)
	}
	return &Workspace{Root: root, RunID: uuid.NewString()}, nil
}

// NewTempWorkspace allocates a fresh directory under parent (os.TempDir when
// empty). Remove deletes it.
func NewTempWorkspace(parent, name string) (*Workspace, error) {
	runID := uuid.NewString()
	pattern := "sdlkit-" + runID[:8] + "-"
	if name != "" {
		pattern = "sdlkit-" + sanitize(name) + "-"
	}
	root, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "creating temporary workspace")
	}
	return &Workspace{Root: root, RunID: runID, temporary: true}, nil
}

// ProjectName is the root project name written to the settings file.
func (w *Workspace) ProjectName() string {
	return "schema-snapshot-" + w.RunID[:8]
}

// Path resolves rel inside the workspace.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// WriteFile writes content to rel, creating parent directories.
func (w *Workspace) WriteFile(rel, content string) error {
	path := w.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", rel)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", rel)
	}
	return nil
}

// ReadFile reads rel. A missing file is reported with an error satisfying
// os.IsNotExist.
func (w *Workspace) ReadFile(rel string) (string, error) {
	b, err := os.ReadFile(w.Path(rel))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Remove deletes a temporary workspace. Caller-owned roots are left alone.
func (w *Workspace) Remove() error {
	if !w.temporary {
		return nil
	}
	return os.RemoveAll(w.Root)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
