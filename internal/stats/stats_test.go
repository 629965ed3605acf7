package stats_test

import (
	"reflect"
	"testing"

	"github.com/Tiliavir/stress-proof-tracker/internal/model"
	"github.com/Tiliavir/stress-proof-tracker/internal/stats"
)

func day(date string, work bool, workMin, mood int) model.DailyEntry {
	return model.DailyEntry{
		Date: date,
		Work: model.Activity{Done: work, Minutes: workMin},
		Mood: mood,
	}
}

func rateFor(rates []stats.TaskRate, t model.Task) float64 {
	for _, r := range rates {
		if r.Task == t {
			return r.Percent
		}
	}
	return -1
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.DailyEntry
		want    float64
	}{
		{"empty", nil, 0},
		{"all done", []model.DailyEntry{day("a", true, 0, 3), day("b", true, 0, 3)}, 100},
		{"one of four", []model.DailyEntry{
			day("a", true, 0, 3), day("b", false, 0, 3), day("c", false, 0, 3), day("d", false, 0, 3),
		}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := stats.Completion(tt.entries, 7)
			if len(rates) != len(model.Tasks) {
				t.Fatalf("rates = %d, want %d", len(rates), len(model.Tasks))
			}
			if got := rateFor(rates, model.Work); got != tt.want {
				t.Errorf("work = %v, want %v", got, tt.want)
			}
			if got := rateFor(rates, model.Gym); got != 0 {
				t.Errorf("gym = %v, want 0", got)
			}
		})
	}
}

func TestCompletionUsesLastInserted(t *testing.T) {
	// Ten entries; only the first three have work done, and they fall out of
	// the seven-entry window.
	var entries []model.DailyEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, day("d", i < 3, 0, 3))
	}
	if got := rateFor(stats.Completion(entries, 7), model.Work); got != 0 {
		t.Errorf("work = %v, want 0", got)
	}
	entries[9].Work.Done = true
	want := 100.0 / 7
	if got := rateFor(stats.Completion(entries, 7), model.Work); got != want {
		t.Errorf("work = %v, want %v", got, want)
	}
}

func TestTimeTotals(t *testing.T) {
	entries := []model.DailyEntry{
		day("old", true, 600, 3),
		day("a", true, 60, 3),
		day("b", false, 0, 3),
		day("c", true, 45, 3),
	}
	entries[3].Gym = model.Activity{Done: true, Minutes: 30}

	got := stats.TimeTotals(entries, 3)
	want := []stats.TaskMinutes{
		{Task: model.Work, Minutes: 105},
		{Task: model.Gym, Minutes: 30},
		{Task: model.Learning},
		{Task: model.Reading},
		{Task: model.Entertainment},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TimeTotals = %+v, want %+v", got, want)
	}
}

func TestMoodTrendKeepsInsertionOrder(t *testing.T) {
	entries := []model.DailyEntry{
		day("2026-02-03", false, 0, 2),
		day("2026-02-01", false, 0, 5),
		day("2026-02-02", false, 0, 4),
	}
	got := stats.MoodTrend(entries, 2)
	want := []stats.MoodPoint{{Date: "2026-02-01", Mood: 5}, {Date: "2026-02-02", Mood: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MoodTrend = %+v, want %+v", got, want)
	}
}

func TestDistributionLearning(t *testing.T) {
	entries := []model.DailyEntry{
		{Learning: model.Activity{Done: true}, LearningType: "A"},
		{Learning: model.Activity{Done: true}, LearningType: "A"},
		{Learning: model.Activity{Done: true}, LearningType: "B"},
		{Learning: model.Activity{Done: false}, LearningType: "A"},
	}
	got := stats.Distribution(entries, model.Learning)
	want := []stats.Count{{Value: "A", Count: 2}, {Value: "B", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distribution = %+v, want %+v", got, want)
	}
}

func TestDistributionSkipsEmptyAndSortsDescending(t *testing.T) {
	entries := []model.DailyEntry{
		{Reading: model.Activity{Done: true}, ReadingBook: "First"},
		{Reading: model.Activity{Done: true}, ReadingBook: ""},
		{Reading: model.Activity{Done: true}, ReadingBook: "Second"},
		{Reading: model.Activity{Done: true}, ReadingBook: "Second"},
		{Reading: model.Activity{Done: true}, ReadingBook: "Third"},
	}
	got := stats.Distribution(entries, model.Reading)
	want := []stats.Count{{Value: "Second", Count: 2}, {Value: "First", Count: 1}, {Value: "Third", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distribution = %+v, want %+v", got, want)
	}
}

func TestDistributionNoQualifyingRows(t *testing.T) {
	entries := []model.DailyEntry{{EntertainmentItem: "Heat"}}
	if got := stats.Distribution(entries, model.Entertainment); got != nil {
		t.Errorf("Distribution = %+v, want nil", got)
	}
	if got := stats.Distribution(nil, model.Entertainment); got != nil {
		t.Errorf("Distribution(nil) = %+v, want nil", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := stats.Summarize(nil)
	if s.HasData() {
		t.Error("HasData on empty history")
	}
	if s.Window != 0 || len(s.Mood) != 0 || s.Learning != nil {
		t.Errorf("empty summary = %+v", s)
	}
	for _, r := range s.Completion {
		if r.Percent != 0 {
			t.Errorf("%s = %v, want 0", r.Task, r.Percent)
		}
	}
}

func TestLast(t *testing.T) {
	items := []int{1, 2, 3, 4}
	if got := stats.Last(items, 2); !reflect.DeepEqual(got, []int{3, 4}) {
		t.Errorf("Last 2 = %v", got)
	}
	if got := stats.Last(items, 10); len(got) != 4 {
		t.Errorf("Last 10 = %v", got)
	}
	if got := stats.Last(items, 0); got != nil {
		t.Errorf("Last 0 = %v", got)
	}
}
