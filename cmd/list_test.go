package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/Tiliavir/stress-proof-tracker/internal/digest"
	"github.com/Tiliavir/stress-proof-tracker/internal/model"
)

func init() {
	color.NoColor = true
}

func TestActivityCell(t *testing.T) {
	e := model.NewDailyEntry(friday)
	e.Work = model.Activity{Done: true, Minutes: 480}
	e.Gym = model.Activity{Done: true}
	e.Learning = model.Activity{Minutes: 45}
	e.Entertainment = model.Activity{Done: true, Minutes: 120}
	e.EntertainmentItem = "Dark"

	tests := []struct {
		task model.Task
		want string
	}{
		{model.Work, "✓ 8h 0m"},
		{model.Gym, "✓"},
		{model.Learning, "45m"},
		{model.Reading, "-"},
		{model.Entertainment, "✓ 2h 0m · Dark"},
	}
	for _, tt := range tests {
		if got := activityCell(e, tt.task); got != tt.want {
			t.Errorf("activityCell(%s) = %q, want %q", tt.task, got, tt.want)
		}
	}
}

func TestEntriesOn(t *testing.T) {
	entries := []model.DailyEntry{
		{Date: "2026-02-26"},
		{Date: "2026-02-27", Notes: "first"},
		{Date: "not a date"},
		{Date: "2026-02-27", Notes: "second"},
	}
	got := entriesOn(entries, friday)
	if len(got) != 2 || got[0].Notes != "first" || got[1].Notes != "second" {
		t.Errorf("entriesOn = %+v", got)
	}
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer
	printList(&buf, nil)
	if got := strings.TrimSpace(buf.String()); got != "No entries found." {
		t.Errorf("empty list = %q", got)
	}

	e := model.NewDailyEntry(friday)
	e.Notes = "rest day"
	buf.Reset()
	printList(&buf, []model.DailyEntry{e})
	for _, want := range []string{"Date", "Entertainment", "2026-02-27", "rest day"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("list missing %q:\n%s", want, buf.String())
		}
	}
}

func TestPrintBooks(t *testing.T) {
	books := []model.BookEntry{{Title: "Dune", Finished: true}, {Title: "Sapiens"}}

	var buf bytes.Buffer
	printBooks(&buf, books, false)
	if out := buf.String(); strings.Contains(out, "Dune") || !strings.Contains(out, "Sapiens") {
		t.Errorf("unfinished list:\n%s", out)
	}

	buf.Reset()
	printBooks(&buf, books, true)
	if out := buf.String(); !strings.Contains(out, "Dune") || !strings.Contains(out, "finished") {
		t.Errorf("full list:\n%s", out)
	}

	buf.Reset()
	printBooks(&buf, books[:1], false)
	if got := strings.TrimSpace(buf.String()); got != "No books on the list." {
		t.Errorf("empty list = %q", got)
	}
}

func TestPrintWatchlist(t *testing.T) {
	items := []model.WatchlistEntry{
		{Title: "Dark", ItemType: model.ItemSeries},
		{Title: "Heat", ItemType: model.ItemMovie},
		{Title: "Alien", ItemType: model.ItemMovie, Finished: true},
	}

	var buf bytes.Buffer
	printWatchlist(&buf, items, model.ItemMovie, false)
	out := buf.String()
	if !strings.Contains(out, "Heat") || strings.Contains(out, "Dark") || strings.Contains(out, "Alien") {
		t.Errorf("movies:\n%s", out)
	}

	buf.Reset()
	printWatchlist(&buf, items, model.ItemSeries, true)
	if out := buf.String(); !strings.Contains(out, "Dark") || strings.Contains(out, "Heat") {
		t.Errorf("series:\n%s", out)
	}
}

func TestPrintDigest(t *testing.T) {
	var buf bytes.Buffer
	printDigest(&buf, nil)
	if got := strings.TrimSpace(buf.String()); got != "Digest unavailable right now." {
		t.Errorf("empty digest = %q", got)
	}

	buf.Reset()
	printDigest(&buf, []digest.Item{{Source: "BBC World", Title: "Headline", Link: "https://example.com/a"}})
	if out := buf.String(); !strings.Contains(out, "[BBC World]  Headline") || !strings.Contains(out, "https://example.com/a") {
		t.Errorf("digest:\n%s", out)
	}
}
