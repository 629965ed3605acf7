// Package stats derives rolling statistics from the daily entry collection.
//
// Every function is pure and reads entries in insertion order. "Last N" means
// the N most recently appended entries, not the N latest calendar dates.
package stats

import (
	"sort"

	"github.com/Tiliavir/stress-proof-tracker/internal/model"
)

// Window sizes used by Summarize.
const (
	CompletionWindow = 7
	MoodWindow       = 14
)

// TaskRate is the share of entries in a window where a task was done.
type TaskRate struct {
	Task    model.Task `json:"task"`
	Percent float64    `json:"percent"`
}

// TaskMinutes is the time spent on a task over a window.
type TaskMinutes struct {
	Task    model.Task `json:"task"`
	Minutes int        `json:"minutes"`
}

// MoodPoint is one sample of the mood trend.
type MoodPoint struct {
	Date string `json:"date"`
	Mood int    `json:"mood"`
}

// Count is one slice of a categorical distribution.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary bundles everything the report shows.
type Summary struct {
	Entries       int           `json:"entries"`
	Window        int           `json:"window"`
	Completion    []TaskRate    `json:"completion"`
	TimeTotals    []TaskMinutes `json:"time_totals"`
	Mood          []MoodPoint   `json:"mood"`
	Learning      []Count       `json:"learning"`
	Reading       []Count       `json:"reading"`
	Entertainment []Count       `json:"entertainment"`
}

// HasData reports whether there is anything to chart.
func (s Summary) HasData() bool { return s.Entries > 0 }

// Last returns the final n items (all of them when there are fewer).
func Last[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

// Completion returns, per task, the percentage of the last window entries
// with the task's flag set. An empty window yields 0 for every task.
func Completion(entries []model.DailyEntry, window int) []TaskRate {
	w := Last(entries, window)
	out := make([]TaskRate, 0, len(model.Tasks))
	for _, t := range model.Tasks {
		rate := TaskRate{Task: t}
		if len(w) > 0 {
			done := 0
			for _, e := range w {
				if e.Activity(t).Done {
					done++
				}
			}
			rate.Percent = 100 * float64(done) / float64(len(w))
		}
		out = append(out, rate)
	}
	return out
}

// TimeTotals sums minutes per task over the last window entries.
func TimeTotals(entries []model.DailyEntry, window int) []TaskMinutes {
	w := Last(entries, window)
	out := make([]TaskMinutes, 0, len(model.Tasks))
	for _, t := range model.Tasks {
		tm := TaskMinutes{Task: t}
		for _, e := range w {
			tm.Minutes += e.Activity(t).Minutes
		}
		out = append(out, tm)
	}
	return out
}

// MoodTrend returns (date, mood) pairs for the last window entries.
func MoodTrend(entries []model.DailyEntry, window int) []MoodPoint {
	w := Last(entries, window)
	out := make([]MoodPoint, 0, len(w))
	for _, e := range w {
		out = append(out, MoodPoint{Date: e.Date, Mood: e.Mood})
	}
	return out
}

// Distribution counts the distinct non-empty detail values of task over the
// whole history, only on entries where the task was done. The result is
// ordered by descending count; ties keep first-seen order. It is nil when no
// entry qualifies.
func Distribution(entries []model.DailyEntry, t model.Task) []Count {
	idx := map[string]int{}
	var out []Count
	for _, e := range entries {
		if !e.Activity(t).Done {
			continue
		}
		v := e.Detail(t)
		if v == "" {
			continue
		}
		if i, ok := idx[v]; ok {
			out[i].Count++
			continue
		}
		idx[v] = len(out)
		out = append(out, Count{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Summarize computes the full report over entries.
func Summarize(entries []model.DailyEntry) Summary {
	return Summary{
		Entries:       len(entries),
		Window:        len(Last(entries, CompletionWindow)),
		Completion:    Completion(entries, CompletionWindow),
		TimeTotals:    TimeTotals(entries, CompletionWindow),
		Mood:          MoodTrend(entries, MoodWindow),
		Learning:      Distribution(entries, model.Learning),
		Reading:       Distribution(entries, model.Reading),
		Entertainment: Distribution(entries, model.Entertainment),
	}
}
