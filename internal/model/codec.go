package model

import (
	"strconv"

	"github.com/Tiliavir/stress-proof-tracker/internal/storage"
)

// Table names; the local backend stores them as <name>.csv, the spreadsheet
// backend as worksheets with the same titles.
const (
	DailyTable     = "data"
	BooksTable     = "books"
	WatchlistTable = "entertainment"
)

func text(name string) storage.Column { return storage.Column{Name: name, Kind: storage.KindText} }
func num(name string) storage.Column { return storage.Column{Name: name, Kind: storage.KindInt} }

// DailySchema is the column layout of the daily entries table.
var DailySchema = storage.Schema{
	Name: DailyTable,
	Columns: []storage.Column{
		text("date"),
		num("work"), num("work_minutes"),
		num("gym"), num("gym_minutes"),
		num("learning"), num("learning_minutes"),
		text("learning_type"),
		num("reading"), text("reading_book"), num("reading_minutes"),
		num("entertainment"), text("entertainment_item"), num("entertainment_minutes"),
		num("mood"),
		text("notes"),
	},
}

// BookSchema is the column layout of the book list.
var BookSchema = storage.Schema{
	Name:    BooksTable,
	Columns: []storage.Column{text("title"), num("finished")},
}

// WatchlistSchema is the column layout of the watchlist.
var WatchlistSchema = storage.Schema{
	Name:    WatchlistTable,
	Columns: []storage.Column{text("title"), text("item_type"), num("finished")},
}

// DecodeDaily builds a DailyEntry from a conformed record.
func DecodeDaily(r storage.Record) DailyEntry {
	e := DailyEntry{
		Date:              r.Text("date"),
		LearningType:      r.Text("learning_type"),
		ReadingBook:       r.Text("reading_book"),
		EntertainmentItem: r.Text("entertainment_item"),
		Mood:              r.Int("mood"),
		Notes:             r.Text("notes"),
	}
	for _, t := range Tasks {
		e.SetActivity(t, Activity{
			Done:    r.Bool(t.Key()),
			Minutes: r.Int(t.Key() + "_minutes"),
		})
	}
	return e
}

// EncodeDaily renders a DailyEntry as a row in DailySchema order.
func EncodeDaily(e DailyEntry) []string {
	itoa := strconv.Itoa
	flag := storage.FormatBool
	return []string{
		e.Date,
		flag(e.Work.Done), itoa(e.Work.Minutes),
		flag(e.Gym.Done), itoa(e.Gym.Minutes),
		flag(e.Learning.Done), itoa(e.Learning.Minutes),
		e.LearningType,
		flag(e.Reading.Done), e.ReadingBook, itoa(e.Reading.Minutes),
		flag(e.Entertainment.Done), e.EntertainmentItem, itoa(e.Entertainment.Minutes),
		itoa(e.Mood),
		e.Notes,
	}
}

// DecodeBook builds a BookEntry from a conformed record.
func DecodeBook(r storage.Record) BookEntry {
	return BookEntry{Title: r.Text("title"), Finished: r.Bool("finished")}
}

// EncodeBook renders a BookEntry in BookSchema order.
func EncodeBook(b BookEntry) []string {
	return []string{b.Title, storage.FormatBool(b.Finished)}
}

// DecodeWatchlist builds a WatchlistEntry from a conformed record.
func DecodeWatchlist(r storage.Record) WatchlistEntry {
	return WatchlistEntry{
		Title:    r.Text("title"),
		ItemType: ItemType(r.Text("item_type")),
		Finished: r.Bool("finished"),
	}
}

// EncodeWatchlist renders a WatchlistEntry in WatchlistSchema order.
func EncodeWatchlist(w WatchlistEntry) []string {
	return []string{w.Title, string(w.ItemType), storage.FormatBool(w.Finished)}
}
