package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
	"github.com/Tiliavir/stress-proof-tracker/internal/storage"
)

// Backend stores each table as a worksheet of one spreadsheet, header in the
// first row.
type Backend struct {
	client *Client
}

// NewBackend returns a storage backend over client.
func NewBackend(client *Client) *Backend {
	return &Backend{client: client}
}

// Open authenticates with the service account key creds and returns a
// backend for spreadsheetID. No request is made until the first read or
// write.
func Open(ctx context.Context, spreadsheetID string, creds []byte) (*Backend, error) {
	c, err := ParseCredentials(creds)
	if err != nil {
		return nil, err
	}
	return NewBackend(NewClient(c.HTTPClient(ctx), spreadsheetID)), nil
}

func (b *Backend) Name() string { return "sheets" }

// ReadTable returns the worksheet's content. A worksheet that does not exist
// yet is created with the schema header, and the read reports
// storage.ErrTableNotFound so the caller can seed it.
func (b *Backend) ReadTable(ctx context.Context, s storage.Schema) (storage.Table, error) {
	titles, err := b.client.SheetTitles(ctx)
	if err != nil {
		return storage.Table{}, b.wrap("read", s.Name, err)
	}
	if !slices.Contains(titles, s.Name) {
		logger.Info("creating worksheet", "table", s.Name)
		if err := b.create(ctx, s); err != nil {
			return storage.Table{}, b.wrap("create", s.Name, err)
		}
		return storage.Table{}, fmt.Errorf("worksheet %s: %w", s.Name, storage.ErrTableNotFound)
	}

	rows, err := b.client.GetValues(ctx, s.Name)
	if err != nil {
		return storage.Table{}, b.wrap("read", s.Name, err)
	}
	if len(rows) == 0 {
		return storage.Table{}, nil
	}
	return storage.Table{Header: rows[0], Rows: rows[1:]}, nil
}

// WriteTable replaces the worksheet content with t.
func (b *Backend) WriteTable(ctx context.Context, s storage.Schema, t storage.Table) error {
	header := t.Header
	if len(header) == 0 {
		header = s.Header()
	}
	values := make([][]string, 0, len(t.Rows)+1)
	values = append(values, header)
	values = append(values, t.Rows...)

	if err := b.client.ClearValues(ctx, s.Name); err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
			return b.wrap("write", s.Name, err)
		}
		// The range does not parse when the worksheet is missing.
		if err := b.client.AddSheet(ctx, s.Name); err != nil {
			return b.wrap("create", s.Name, err)
		}
	}
	if err := b.client.UpdateValues(ctx, s.Name, values); err != nil {
		return b.wrap("write", s.Name, err)
	}
	return nil
}

func (b *Backend) create(ctx context.Context, s storage.Schema) error {
	if err := b.client.AddSheet(ctx, s.Name); err != nil {
		return err
	}
	return b.client.UpdateValues(ctx, s.Name, [][]string{s.Header()})
}

func (b *Backend) wrap(op, table string, err error) error {
	return &storage.BackendError{Backend: b.Name(), Op: op, Table: table, Err: err}
}
