package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrTableNotFound is returned by a Backend when the named table does not
// exist yet. Callers treat it as an empty table.
var ErrTableNotFound = errors.New("table not found")

// BackendError describes a failed read or write against a backend. It is the
// "transient failure" counterpart to ErrTableNotFound.
type BackendError struct {
	Backend string
	Op      string
	Table   string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Backend, e.Op, e.Table, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the table simply does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrTableNotFound) }

// Backend reads and writes whole named tables. WriteTable replaces the entire
// table content; there are no partial updates.
type Backend interface {
	Name() string
	ReadTable(ctx context.Context, s Schema) (Table, error)
	WriteTable(ctx context.Context, s Schema, t Table) error
}

// BaseDir returns the default data directory: the directory containing the
// running executable, so tables stay beside the application regardless of
// the caller's working directory.
func BaseDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot determine executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// New returns the backend selected at startup: the local backend on its own,
// or a Mirror over local and remote when a remote backend is configured.
func New(dir string, remote Backend) Backend {
	local := NewLocal(dir)
	if remote == nil {
		return local
	}
	return NewMirror(local, remote)
}
