package model

import (
	"fmt"
	"strings"
)

// BookEntry is a book on the reading list. Titles are unique by convention
// only.
type BookEntry struct {
	Title    string `json:"title"`
	Finished bool   `json:"finished"`
}

// ItemType distinguishes watchlist entries.
type ItemType string

const (
	ItemMovie  ItemType = "Movie"
	ItemSeries ItemType = "Series"
)

// ParseItemType accepts "movie"/"series" in any case.
func ParseItemType(s string) (ItemType, error) {
	switch {
	case strings.EqualFold(s, string(ItemMovie)):
		return ItemMovie, nil
	case strings.EqualFold(s, string(ItemSeries)):
		return ItemSeries, nil
	}
	return "", &ValidationError{Field: "item_type", Msg: fmt.Sprintf("%q is neither Movie nor Series", s)}
}

// WatchlistEntry is a movie or series on the watchlist.
type WatchlistEntry struct {
	Title    string   `json:"title"`
	ItemType ItemType `json:"item_type"`
	Finished bool     `json:"finished"`
}

// NewTitle trims a list title and rejects empty ones.
func NewTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	return s, nil
}

// UnfinishedBooks returns the titles of books not yet finished, in list order.
func UnfinishedBooks(books []BookEntry) []string {
	var out []string
	for _, b := range books {
		if !b.Finished {
			out = append(out, b.Title)
		}
	}
	return out
}

// UnfinishedItems returns the titles of watchlist items not yet finished.
func UnfinishedItems(items []WatchlistEntry) []string {
	var out []string
	for _, it := range items {
		if !it.Finished {
			out = append(out, it.Title)
		}
	}
	return out
}
