// Package tracker runs one interaction at a time against the three stores:
// load everything fresh, apply exactly one mutation, persist, then reload and
// recompute the summary.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
	"github.com/Tiliavir/stress-proof-tracker/internal/model"
	"github.com/Tiliavir/stress-proof-tracker/internal/stats"
	"github.com/Tiliavir/stress-proof-tracker/internal/storage"
	"github.com/Tiliavir/stress-proof-tracker/internal/store"
)

// State is everything a view needs after an interaction.
type State struct {
	Entries   []model.DailyEntry     `json:"entries"`
	Books     []model.BookEntry      `json:"books"`
	Watchlist []model.WatchlistEntry `json:"watchlist"`
	Summary   stats.Summary          `json:"summary"`
}

// Tracker serialises interactions so a single process never races itself on
// the whole-table rewrites. Separate processes can still clobber each other.
type Tracker struct {
	mu      sync.Mutex
	backend storage.Backend
	now     func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now for defaulting check-in dates.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New returns a tracker over backend.
func New(backend storage.Backend, opts ...Option) *Tracker {
	t := &Tracker{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Backend returns the storage backend in use.
func (t *Tracker) Backend() storage.Backend { return t.backend }

// State loads all three collections and summarises the daily entries.
func (t *Tracker) State(ctx context.Context) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state(ctx)
}

func (t *Tracker) state(ctx context.Context) State {
	entries := store.NewEntries(t.backend).Load(ctx)
	return State{
		Entries:   entries,
		Books:     store.NewBooks(t.backend).Load(ctx),
		Watchlist: store.NewWatchlist(t.backend).Load(ctx),
		Summary:   stats.Summarize(entries),
	}
}

// Today returns the entries dated today, in insertion order.
func (t *Tracker) Today(ctx context.Context) []model.DailyEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	day := t.now().Format(model.DateLayout)
	var out []model.DailyEntry
	for _, e := range store.NewEntries(t.backend).Load(ctx) {
		if e.Date == day {
			out = append(out, e)
		}
	}
	return out
}

// CheckIn appends one daily entry. An empty date means today and an empty
// learning type means "None". Placeholder selections are cleared before the
// entry is validated.
func (t *Tracker) CheckIn(ctx context.Context, e model.DailyEntry) (State, error) {
	e.Normalize()
	if e.Date == "" {
		e.Date = t.now().Format(model.DateLayout)
	}
	if e.LearningType == "" {
		e.LearningType = string(model.LearningNone)
	}
	if err := e.Validate(); err != nil {
		return State{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := store.NewEntries(t.backend)
	s.Load(ctx)
	if err := s.Append(ctx, e); err != nil {
		return State{}, err
	}
	logger.Info("check-in saved", "date", e.Date, "mood", e.Mood)
	return t.state(ctx), nil
}

// AddBook appends an unfinished book.
func (t *Tracker) AddBook(ctx context.Context, title string) (State, error) {
	title, err := model.NewTitle(title)
	if err != nil {
		return State{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := store.NewBooks(t.backend)
	s.Load(ctx)
	if err := s.Append(ctx, model.BookEntry{Title: title}); err != nil {
		return State{}, err
	}
	logger.Info("book added", "title", title)
	return t.state(ctx), nil
}

// FinishBook marks every book titled exactly title as finished and returns
// how many rows changed. Zero matches is not an error.
func (t *Tracker) FinishBook(ctx context.Context, title string) (int, State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := store.NewBooks(t.backend)
	s.Load(ctx)
	n, err := s.UpdateWhere(ctx, func(b model.BookEntry) bool { return b.Title == title }, "finished", "1")
	if err != nil {
		return 0, State{}, err
	}
	logger.Info("book finished", "title", title, "updated", n)
	return n, t.state(ctx), nil
}

// AddWatchItem appends an unfinished movie or series.
func (t *Tracker) AddWatchItem(ctx context.Context, title string, it model.ItemType) (State, error) {
	title, err := model.NewTitle(title)
	if err != nil {
		return State{}, err
	}
	if it == "" {
		it = model.ItemMovie
	}
	if it, err = model.ParseItemType(string(it)); err != nil {
		return State{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := store.NewWatchlist(t.backend)
	s.Load(ctx)
	if err := s.Append(ctx, model.WatchlistEntry{Title: title, ItemType: it}); err != nil {
		return State{}, err
	}
	logger.Info("watchlist item added", "title", title, "type", it)
	return t.state(ctx), nil
}

// FinishWatchItem marks every watchlist item titled exactly title as
// finished and returns how many rows changed.
func (t *Tracker) FinishWatchItem(ctx context.Context, title string) (int, State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := store.NewWatchlist(t.backend)
	s.Load(ctx)
	n, err := s.UpdateWhere(ctx, func(w model.WatchlistEntry) bool { return w.Title == title }, "finished", "1")
	if err != nil {
		return 0, State{}, err
	}
	logger.Info("watchlist item finished", "title", title, "updated", n)
	return n, t.state(ctx), nil
}
