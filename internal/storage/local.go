package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
)

// utf8BOM is prepended by spreadsheet exports; it would otherwise stick to the
// first column name.
var utf8BOM = []byte("\xef\xbb\xbf")

// Local stores each table as <dir>/<name>.csv with a header row.
type Local struct {
	dir string
}

// NewLocal returns a Local backend rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) Name() string { return "local" }

// Path returns the file backing the named table.
func (l *Local) Path(name string) string {
	return filepath.Join(l.dir, name+".csv")
}

// ReadTable loads a table. A missing file yields ErrTableNotFound. A file that
// cannot be parsed is moved aside to <file>.corrupt so the next write starts
// clean without destroying what was there.
func (l *Local) ReadTable(_ context.Context, s Schema) (Table, error) {
	path := l.Path(s.Name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Table{}, fmt.Errorf("%s: %w", path, ErrTableNotFound)
	}
	if err != nil {
		return Table{}, &BackendError{Backend: l.Name(), Op: "read", Table: s.Name, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		backupPath := path + ".corrupt"
		if renameErr := os.Rename(path, backupPath); renameErr == nil {
			logger.Warn("corrupt table moved aside", "path", path, "backup", backupPath)
		}
		return Table{}, &BackendError{Backend: l.Name(), Op: "parse", Table: s.Name, Err: err}
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// WriteTable atomically replaces the table file: the content is written to a
// temp file which is then renamed over the original.
func (l *Local) WriteTable(_ context.Context, s Schema, t Table) error {
	path := l.Path(s.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return &BackendError{Backend: l.Name(), Op: "mkdir", Table: s.Name, Err: err}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := t.Header
	if len(header) == 0 {
		header = s.Header()
	}
	if err := w.Write(header); err != nil {
		return &BackendError{Backend: l.Name(), Op: "encode", Table: s.Name, Err: err}
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return &BackendError{Backend: l.Name(), Op: "encode", Table: s.Name, Err: err}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return &BackendError{Backend: l.Name(), Op: "write", Table: s.Name, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &BackendError{Backend: l.Name(), Op: "rename", Table: s.Name, Err: err}
	}
	return nil
}
