package store

import (
	"context"
	"fmt"

	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
	"github.com/Tiliavir/stress-proof-tracker/internal/model"
	"github.com/Tiliavir/stress-proof-tracker/internal/storage"
)

// Codec maps a record type onto its table schema.
type Codec[T any] struct {
	Schema storage.Schema
	Decode func(storage.Record) T
	Encode func(T) []string
}

// Store owns one entity collection. The whole collection is the unit of
// persistence: every mutation rewrites the full table.
type Store[T any] struct {
	backend storage.Backend
	codec   Codec[T]
	items   []T
	loaded  bool
}

// New returns a store for codec's table on backend. Nothing is read until
// Load is called.
func New[T any](backend storage.Backend, codec Codec[T]) *Store[T] {
	return &Store[T]{backend: backend, codec: codec}
}

// Entries, Books and Watchlist are the three stores of the tracker.
type (
	Entries   = Store[model.DailyEntry]
	Books     = Store[model.BookEntry]
	Watchlist = Store[model.WatchlistEntry]
)

// NewEntries returns the daily entry store.
func NewEntries(b storage.Backend) *Entries {
	return New(b, Codec[model.DailyEntry]{
		Schema: model.DailySchema,
		Decode: model.DecodeDaily,
		Encode: model.EncodeDaily,
	})
}

// NewBooks returns the book list store.
func NewBooks(b storage.Backend) *Books {
	return New(b, Codec[model.BookEntry]{
		Schema: model.BookSchema,
		Decode: model.DecodeBook,
		Encode: model.EncodeBook,
	})
}

// NewWatchlist returns the watchlist store.
func NewWatchlist(b storage.Backend) *Watchlist {
	return New(b, Codec[model.WatchlistEntry]{
		Schema: model.WatchlistSchema,
		Decode: model.DecodeWatchlist,
		Encode: model.EncodeWatchlist,
	})
}

// Load reads the collection fresh from the backend. It never fails: a missing
// table and a failed read both produce an empty collection, the latter being
// logged. Every declared column is present on every record, backfilled with
// its default where the stored table lacks it.
func (s *Store[T]) Load(ctx context.Context) []T {
	name := s.codec.Schema.Name
	t, err := s.backend.ReadTable(ctx, s.codec.Schema)
	switch {
	case err == nil:
	case storage.IsNotFound(err):
		logger.Debug("table not found, starting empty", "table", name, "backend", s.backend.Name())
		t = storage.Table{}
	default:
		logger.Warn("table could not be read, starting empty", "table", name, "backend", s.backend.Name(), "err", err)
		t = storage.Table{}
	}

	records := s.codec.Schema.Conform(t)
	s.items = make([]T, 0, len(records))
	for _, r := range records {
		s.items = append(s.items, s.codec.Decode(r))
	}
	s.loaded = true
	return s.Items()
}

// Items returns a copy of the collection in insertion order.
func (s *Store[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Append adds item at the end of the collection and persists the whole
// collection. A store that was never loaded is loaded first so the write does
// not drop existing rows.
func (s *Store[T]) Append(ctx context.Context, item T) error {
	if !s.loaded {
		s.Load(ctx)
	}
	s.items = append(s.items, item)
	return s.persist(ctx)
}

// UpdateWhere sets field to value on every record matching match and
// persists. It returns the number of updated records; with no match nothing
// is written. field must be a column of the store's schema.
func (s *Store[T]) UpdateWhere(ctx context.Context, match func(T) bool, field, value string) (int, error) {
	idx := s.codec.Schema.Index(field)
	if idx < 0 {
		return 0, fmt.Errorf("%s has no column %q", s.codec.Schema.Name, field)
	}
	if !s.loaded {
		s.Load(ctx)
	}

	header := s.codec.Schema.Header()
	n := 0
	for i, item := range s.items {
		if !match(item) {
			continue
		}
		row := s.codec.Encode(item)
		row[idx] = value
		recs := s.codec.Schema.Conform(storage.Table{Header: header, Rows: [][]string{row}})
		if len(recs) == 1 {
			s.items[i] = s.codec.Decode(recs[0])
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.persist(ctx)
}

func (s *Store[T]) persist(ctx context.Context) error {
	t := storage.Table{
		Header: s.codec.Schema.Header(),
		Rows:   make([][]string, 0, len(s.items)),
	}
	for _, item := range s.items {
		t.Rows = append(t.Rows, s.codec.Encode(item))
	}
	if err := s.backend.WriteTable(ctx, s.codec.Schema, t); err != nil {
		return fmt.Errorf("saving %s: %w", s.codec.Schema.Name, err)
	}
	return nil
}
