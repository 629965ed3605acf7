package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used in storage.
const DateLayout = "2006-01-02"

// Task is one of the five tracked daily activities.
type Task int

const (
	Work Task = iota
	Gym
	Learning
	Reading
	Entertainment
)

// Tasks lists every task in display order.
var Tasks = []Task{Work, Gym, Learning, Reading, Entertainment}

var taskNames = [...]string{"Work", "Gym", "Learning", "Reading", "Entertainment"}

func (t Task) String() string {
	if t < 0 || int(t) >= len(taskNames) {
		return fmt.Sprintf("Task(%d)", int(t))
	}
	return taskNames[t]
}

// Key is the lower-case column prefix of the task ("work", "gym", ...).
func (t Task) Key() string { return strings.ToLower(t.String()) }

// MaxMinutes is the upper bound the check-in surface accepts for the task.
func (t Task) MaxMinutes() int {
	switch t {
	case Work, Learning:
		return 600
	default:
		return 300
	}
}

func (t Task) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ParseTask resolves a task by name, case-insensitively.
func ParseTask(s string) (Task, error) {
	for _, t := range Tasks {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown task %q", s)
}

// MinuteStep is the granularity offered by the check-in surface.
const MinuteStep = 15

// Activity is the done-flag and time spent on one task for one day.
type Activity struct {
	Done    bool `json:"done"`
	Minutes int  `json:"minutes"`
}

// LearningType is the closed set of learning topics offered at check-in.
// Storage keeps it as free text.
type LearningType string

const (
	LearningNone        LearningType = "None"
	LearningGerman      LearningType = "German A1.3"
	LearningDataScience LearningType = "Data Science / Software"
)

// LearningTypes lists the options in display order.
var LearningTypes = []LearningType{LearningNone, LearningGerman, LearningDataScience}

// ValidLearningType reports whether s is one of LearningTypes.
func ValidLearningType(s string) bool {
	for _, lt := range LearningTypes {
		if string(lt) == s {
			return true
		}
	}
	return false
}

// DailyEntry is one check-in. Several entries may share a date; aggregation
// treats them as separate rows.
type DailyEntry struct {
	Date              string   `json:"date"`
	Work              Activity `json:"work"`
	Gym               Activity `json:"gym"`
	Learning          Activity `json:"learning"`
	LearningType      string   `json:"learning_type"`
	Reading           Activity `json:"reading"`
	ReadingBook       string   `json:"reading_book"`
	Entertainment     Activity `json:"entertainment"`
	EntertainmentItem string   `json:"entertainment_item"`
	Mood              int      `json:"mood"`
	Notes             string   `json:"notes"`
}

// NewDailyEntry returns an empty check-in for day with the default mood.
func NewDailyEntry(day time.Time) DailyEntry {
	return DailyEntry{
		Date:         day.Format(DateLayout),
		LearningType: string(LearningNone),
		Mood:         DefaultMood,
	}
}

// Mood bounds.
const (
	MinMood     = 1
	MaxMood     = 5
	DefaultMood = 3
)

// Activity returns the entry's record for task t.
func (e DailyEntry) Activity(t Task) Activity {
	switch t {
	case Work:
		return e.Work
	case Gym:
		return e.Gym
	case Learning:
		return e.Learning
	case Reading:
		return e.Reading
	case Entertainment:
		return e.Entertainment
	}
	return Activity{}
}

// SetActivity replaces the entry's record for task t.
func (e *DailyEntry) SetActivity(t Task, a Activity) {
	switch t {
	case Work:
		e.Work = a
	case Gym:
		e.Gym = a
	case Learning:
		e.Learning = a
	case Reading:
		e.Reading = a
	case Entertainment:
		e.Entertainment = a
	}
}

// Detail returns the categorical value attached to a task: the learning
// type, the book read, or the item watched. Work and Gym have none.
func (e DailyEntry) Detail(t Task) string {
	switch t {
	case Learning:
		return e.LearningType
	case Reading:
		return e.ReadingBook
	case Entertainment:
		return e.EntertainmentItem
	}
	return ""
}

// Normalize trims free text and maps picker placeholders ("— Select book —")
// to the empty string.
func (e *DailyEntry) Normalize() {
	e.Date = strings.TrimSpace(e.Date)
	e.LearningType = strings.TrimSpace(e.LearningType)
	e.ReadingBook = NormalizeSelection(e.ReadingBook)
	e.EntertainmentItem = NormalizeSelection(e.EntertainmentItem)
	e.Notes = strings.TrimSpace(e.Notes)
}

// Validate checks the entry against the check-in surface limits.
func (e DailyEntry) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return &ValidationError{Field: "date", Msg: fmt.Sprintf("%q is not a YYYY-MM-DD date", e.Date)}
	}
	for _, t := range Tasks {
		m := e.Activity(t).Minutes
		if m < 0 || m > t.MaxMinutes() {
			return &ValidationError{
				Field: t.Key() + "_minutes",
				Msg:   fmt.Sprintf("%d is outside 0-%d", m, t.MaxMinutes()),
			}
		}
	}
	if !ValidLearningType(e.LearningType) {
		return &ValidationError{Field: "learning_type", Msg: fmt.Sprintf("unknown learning type %q", e.LearningType)}
	}
	if e.Mood < MinMood || e.Mood > MaxMood {
		return &ValidationError{Field: "mood", Msg: fmt.Sprintf("%d is outside %d-%d", e.Mood, MinMood, MaxMood)}
	}
	return nil
}

// NormalizeSelection turns a picker placeholder into "" and trims real values.
func NormalizeSelection(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "—") {
		return ""
	}
	return s
}

// ValidationError reports a rejected user input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
