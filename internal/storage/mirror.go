package storage

import (
	"context"

	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
)

// Mirror pairs the local backend with a remote one.
//
// Writes always go to local first and fail only if local fails; the remote
// copy is then updated best effort. Reads prefer remote. An empty remote
// table is a valid answer; a failed remote read falls back to the local
// shadow copy. A table missing on the remote is read from local and, when
// local has rows, copied to the remote so existing history is not lost.
type Mirror struct {
	local  Backend
	remote Backend
}

// NewMirror returns a Mirror writing to both backends.
func NewMirror(local, remote Backend) *Mirror {
	return &Mirror{local: local, remote: remote}
}

func (m *Mirror) Name() string { return m.remote.Name() + "+" + m.local.Name() }

func (m *Mirror) ReadTable(ctx context.Context, s Schema) (Table, error) {
	t, err := m.remote.ReadTable(ctx, s)
	if err == nil {
		return t, nil
	}
	if IsNotFound(err) {
		return m.seed(ctx, s)
	}
	logger.Warn("remote read failed, using local copy", "table", s.Name, "err", err)
	return m.local.ReadTable(ctx, s)
}

func (m *Mirror) seed(ctx context.Context, s Schema) (Table, error) {
	t, err := m.local.ReadTable(ctx, s)
	if err != nil || t.Len() == 0 {
		return t, err
	}
	if err := m.remote.WriteTable(ctx, s, t); err != nil {
		logger.Warn("seeding remote table failed", "table", s.Name, "err", err)
	} else {
		logger.Info("remote table seeded from local copy", "table", s.Name, "rows", t.Len())
	}
	return t, nil
}

func (m *Mirror) WriteTable(ctx context.Context, s Schema, t Table) error {
	if err := m.local.WriteTable(ctx, s, t); err != nil {
		return err
	}
	if err := m.remote.WriteTable(ctx, s, t); err != nil {
		logger.Warn("remote write failed, local copy kept", "table", s.Name, "err", err)
	}
	return nil
}
