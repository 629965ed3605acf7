package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/model"
	"github.com/Tiliavir/stress-proof-tracker/internal/stats"
	"github.com/Tiliavir/stress-proof-tracker/internal/timecalc"
)

var (
	listToday bool
	listLast  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List daily check-ins",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's check-ins only")
	listCmd.Flags().IntVar(&listLast, "last", stats.CompletionWindow, "Show the last N check-ins (0 for all)")
}

func runList(cmd *cobra.Command, args []string) error {
	entries := openTracker(cmd.Context()).State(cmd.Context()).Entries

	switch {
	case listToday:
		entries = entriesOn(entries, time.Now())
	case listLast > 0:
		entries = stats.Last(entries, listLast)
	}

	printList(color.Output, entries)
	return nil
}

// entriesOn keeps the entries dated on day's calendar date.
func entriesOn(entries []model.DailyEntry, day time.Time) []model.DailyEntry {
	var out []model.DailyEntry
	for _, e := range entries {
		d, err := time.ParseInLocation(model.DateLayout, e.Date, day.Location())
		if err == nil && timecalc.SameDay(d, day) {
			out = append(out, e)
		}
	}
	return out
}

// printList prints entries in insertion order, one row per check-in.
func printList(w io.Writer, entries []model.DailyEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	tbl := uitable.New()
	tbl.MaxColWidth = 40
	tbl.Wrap = true
	bold := color.New(color.Bold)
	header := []interface{}{bold.Sprint("Date")}
	for _, t := range model.Tasks {
		header = append(header, bold.Sprint(t))
	}
	header = append(header, bold.Sprint("Mood"), bold.Sprint("Notes"))
	tbl.AddRow(header...)

	for _, e := range entries {
		row := []interface{}{e.Date}
		for _, t := range model.Tasks {
			row = append(row, activityCell(e, t))
		}
		row = append(row, e.Mood, e.Notes)
		tbl.AddRow(row...)
	}
	fmt.Fprintln(w, tbl)
}

// activityCell summarises one task of an entry: "✓ 1h 30m · Dune", "-" when
// nothing was recorded.
func activityCell(e model.DailyEntry, t model.Task) string {
	a := e.Activity(t)
	s := "-"
	switch {
	case a.Done && a.Minutes > 0:
		s = "✓ " + timecalc.FormatMinutes(a.Minutes)
	case a.Done:
		s = "✓"
	case a.Minutes > 0:
		s = timecalc.FormatMinutes(a.Minutes)
	}
	if d := e.Detail(t); d != "" && d != string(model.LearningNone) {
		s += " · " + d
	}
	return s
}
