// Package digest pulls a short list of recent headlines from a fixed set of
// RSS or Atom feeds. Results are memoized for a TTL, in memory and optionally
// on disk, so repeated calls do not refetch.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/peterbourgon/diskv/v3"

	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
)

const (
	// PerFeed is the number of most recent items taken from each feed.
	PerFeed = 4
	// MaxItems caps the merged digest.
	MaxItems = 12
	// DefaultTTL is how long a successful fetch is reused.
	DefaultTTL = time.Hour

	requestTimeout = 10 * time.Second
	cacheKey       = "digest"
)

// ErrUnavailable is returned when no feed could be fetched.
var ErrUnavailable = errors.New("digest unavailable")

// Feed is one named source.
type Feed struct {
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
}

// Item is one headline.
type Item struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

// Fetcher merges the configured feeds into one digest.
type Fetcher struct {
	feeds  []Feed
	ttl    time.Duration
	client *http.Client
	now    func() time.Time
	disk   *diskv.Diskv

	mu        sync.Mutex
	items     []Item
	fetchedAt time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for feed requests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTTL sets how long a successful fetch is reused. Non-positive values
// keep the default.
func WithTTL(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.ttl = d
		}
	}
}

// WithCacheDir persists the last successful digest under dir so it survives
// process restarts.
func WithCacheDir(dir string) Option {
	return func(f *Fetcher) {
		if dir == "" {
			return
		}
		f.disk = diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 1024 * 1024, // 1MB
		})
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New returns a Fetcher for feeds.
func New(feeds []Feed, opts ...Option) *Fetcher {
	f := &Fetcher{
		feeds:  feeds,
		ttl:    DefaultTTL,
		client: &http.Client{Timeout: requestTimeout},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns up to MaxItems headlines, newest first. Within the TTL of the
// last successful fetch the memoized result is returned. When every feed
// fails the result is an empty, non-nil slice together with an error wrapping
// ErrUnavailable; failures are never memoized.
func (f *Fetcher) Fetch(ctx context.Context) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if f.items != nil && now.Sub(f.fetchedAt) < f.ttl {
		return clone(f.items), nil
	}
	if c, ok := f.readCache(); ok && now.Sub(c.FetchedAt) < f.ttl {
		logger.Debug("digest served from disk cache", "fetched_at", c.FetchedAt)
		f.items, f.fetchedAt = c.Items, c.FetchedAt
		return clone(f.items), nil
	}

	items, err := f.fetchAll(ctx)
	if err != nil {
		return []Item{}, err
	}
	f.items, f.fetchedAt = items, now
	f.writeCache(cacheEntry{FetchedAt: now, Sources: f.sources(), Items: items})
	return clone(items), nil
}

func (f *Fetcher) fetchAll(ctx context.Context) ([]Item, error) {
	if len(f.feeds) == 0 {
		return []Item{}, nil
	}

	type result struct {
		items []Item
		err   error
	}
	results := make([]result, len(f.feeds))
	var wg sync.WaitGroup
	for i, feed := range f.feeds {
		wg.Add(1)
		go func(i int, feed Feed) {
			defer wg.Done()
			items, err := f.fetchFeed(ctx, feed)
			results[i] = result{items: items, err: err}
		}(i, feed)
	}
	wg.Wait()

	var (
		all  []Item
		errs []error
	)
	for i, r := range results {
		if r.err != nil {
			logger.Warn("feed fetch failed", "feed", f.feeds[i].Name, "err", r.err)
			errs = append(errs, r.err)
			continue
		}
		all = append(all, r.items...)
	}
	if len(errs) == len(f.feeds) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
	}

	sortNewest(all)
	if len(all) > MaxItems {
		all = all[:MaxItems]
	}
	if all == nil {
		all = []Item{}
	}
	return all, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feed Feed) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", feed.Name, err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", feed.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", feed.Name, resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parsing feed: %w", feed.Name, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil || it.Title == "" {
			continue
		}
		items = append(items, Item{
			Source:    feed.Name,
			Title:     it.Title,
			Link:      it.Link,
			Published: published(it),
		})
	}
	sortNewest(items)
	if len(items) > PerFeed {
		items = items[:PerFeed]
	}
	return items, nil
}

func published(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return it.PublishedParsed.UTC()
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.UTC()
	default:
		return time.Time{}
	}
}

func sortNewest(items []Item) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Published.After(items[j].Published) })
}

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

type cacheEntry struct {
	FetchedAt time.Time `json:"fetched_at"`
	Sources   []string  `json:"sources"`
	Items     []Item    `json:"items"`
}

func (f *Fetcher) sources() []string {
	out := make([]string, len(f.feeds))
	for i, feed := range f.feeds {
		out[i] = feed.URL
	}
	return out
}

// readCache returns the persisted digest if it was built from the current
// feed list.
func (f *Fetcher) readCache() (cacheEntry, bool) {
	if f.disk == nil || !f.disk.Has(cacheKey) {
		return cacheEntry{}, false
	}
	data, err := f.disk.Read(cacheKey)
	if err != nil {
		logger.Warn("reading digest cache", "err", err)
		return cacheEntry{}, false
	}
	var c cacheEntry
	if err := json.Unmarshal(data, &c); err != nil {
		logger.Warn("corrupt digest cache ignored", "err", err)
		return cacheEntry{}, false
	}
	want := f.sources()
	if len(c.Sources) != len(want) {
		return cacheEntry{}, false
	}
	for i := range want {
		if c.Sources[i] != want[i] {
			return cacheEntry{}, false
		}
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, true
}

func (f *Fetcher) writeCache(c cacheEntry) {
	if f.disk == nil {
		return
	}
	data, err := json.Marshal(c)
	if err != nil {
		logger.Warn("encoding digest cache", "err", err)
		return
	}
	if err := f.disk.Write(cacheKey, data); err != nil {
		logger.Warn("writing digest cache", "err", err)
	}
}
