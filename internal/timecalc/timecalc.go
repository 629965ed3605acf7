package timecalc

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/stress-proof-tracker/internal/model"
)

// FormatMinutes formats minutes as a human-readable string like "1h 30m" or "45m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// ParseDay parses an ISO date ("2026-02-27"). The keywords "today" and
// "yesterday" are resolved against now. An empty string means today.
func ParseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return StartOfDay(now), nil
	case "yesterday":
		return StartOfDay(now.AddDate(0, 0, -1)), nil
	}
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// SnapMinutes rounds minutes to the nearest multiple of step, clamped to
// [0, limit].
func SnapMinutes(minutes, step, limit int) int {
	if minutes <= 0 {
		return 0
	}
	if step > 1 {
		minutes = (minutes + step/2) / step * step
	}
	if minutes > limit {
		return limit
	}
	return minutes
}

// DayBanner returns a heading like "Friday, 27 Feb 2026 · 2026-W09".
func DayBanner(t time.Time) string {
	return t.Format("Monday, 2 Jan 2006") + " · " + ISOWeekLabel(t)
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
