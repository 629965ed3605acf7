package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/stress-proof-tracker/internal/timecalc"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{600, "10h 0m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestParseDay(t *testing.T) {
	now := time.Date(2026, 2, 27, 18, 30, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2026-02-27", false},
		{"today", "2026-02-27", false},
		{"Yesterday", "2026-02-26", false},
		{"2026-01-05", "2026-01-05", false},
		{"05.01.2026", "", true},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseDay(tt.in, now)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDay(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDay(%q): %v", tt.in, err)
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDay(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestSnapMinutes(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-10, 0},
		{0, 0},
		{7, 0},
		{8, 15},
		{50, 45},
		{53, 60},
		{900, 300},
	}
	for _, tt := range tests {
		if got := timecalc.SnapMinutes(tt.in, 15, 300); got != tt.want {
			t.Errorf("SnapMinutes(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDayBanner(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	want := "Friday, 27 Feb 2026 · 2026-W09"
	if got := timecalc.DayBanner(fri); got != want {
		t.Errorf("DayBanner = %q, want %q", got, want)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}
