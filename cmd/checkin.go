package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/model"
	"github.com/Tiliavir/stress-proof-tracker/internal/timecalc"
)

const (
	bookPlaceholder  = "— Select book —"
	watchPlaceholder = "— Select —"
)

var (
	checkinDate         string
	checkinDone         = make([]bool, len(model.Tasks))
	checkinMinutes      = make([]int, len(model.Tasks))
	checkinLearningType string
	checkinBook         string
	checkinWatched      string
	checkinMood         int
	checkinNotes        string
	checkinInteractive  bool
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record today's check-in",
	Long: `Record one daily check-in. Every submission adds a new row, so checking
in twice on the same day keeps both entries.`,
	Example: `  spt checkin --work --work-minutes 480 --gym --gym-minutes 60 --mood 4
  spt checkin --reading --reading-minutes 30 --book "Dune"
  spt checkin -i`,
	Args: cobra.NoArgs,
	RunE: runCheckin,
}

func init() {
	f := checkinCmd.Flags()
	for _, t := range model.Tasks {
		f.BoolVar(&checkinDone[t], t.Key(), false, fmt.Sprintf("Mark %s as done", t))
		f.IntVar(&checkinMinutes[t], t.Key()+"-minutes", 0, fmt.Sprintf("Minutes spent on %s (0-%d)", t, t.MaxMinutes()))
	}
	f.StringVar(&checkinLearningType, "learning-type", string(model.LearningNone), "Learning topic: "+learningTypeList())
	f.StringVar(&checkinBook, "book", "", "Book read today")
	f.StringVar(&checkinWatched, "watched", "", "Movie or series watched today")
	f.IntVar(&checkinMood, "mood", model.DefaultMood, "Mood from 1 (low) to 5 (great)")
	f.StringVar(&checkinNotes, "notes", "", "Free-text notes")
	f.StringVar(&checkinDate, "date", "", "Day of the check-in (YYYY-MM-DD, today, yesterday)")
	f.BoolVarP(&checkinInteractive, "interactive", "i", false, "Fill in the check-in with a form")
}

func runCheckin(cmd *cobra.Command, args []string) error {
	day, err := timecalc.ParseDay(checkinDate, time.Now())
	if err != nil {
		return err
	}

	e := model.NewDailyEntry(day)
	for _, t := range model.Tasks {
		e.SetActivity(t, model.Activity{Done: checkinDone[t], Minutes: checkinMinutes[t]})
	}
	e.LearningType = checkinLearningType
	e.ReadingBook = checkinBook
	e.EntertainmentItem = checkinWatched
	e.Mood = checkinMood
	e.Notes = checkinNotes

	ctx := cmd.Context()
	tr := openTracker(ctx)

	if checkinInteractive {
		st := tr.State(ctx)
		if err := checkinForm(&e, model.UnfinishedBooks(st.Books), model.UnfinishedItems(st.Watchlist)); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Check-in cancelled.")
				return nil
			}
			return err
		}
	}

	st, err := tr.CheckIn(ctx, e)
	if err != nil {
		return userError(err)
	}

	fmt.Printf("Checked in for %s (mood %d).\n", e.Date, e.Mood)
	if done := doneTasks(e); len(done) > 0 {
		fmt.Printf("  Done: %s\n", strings.Join(done, ", "))
	}
	fmt.Printf("%d check-ins recorded.\n", st.Summary.Entries)
	return nil
}

// checkinForm lets the user edit e. Only unfinished books and watchlist
// items are offered.
func checkinForm(e *model.DailyEntry, books, items []string) error {
	var done []model.Task
	minutes := make([]string, len(model.Tasks))
	taskOpts := make([]huh.Option[model.Task], 0, len(model.Tasks))
	minuteFields := make([]huh.Field, 0, len(model.Tasks))
	for _, t := range model.Tasks {
		a := e.Activity(t)
		if a.Done {
			done = append(done, t)
		}
		minutes[t] = strconv.Itoa(a.Minutes)
		taskOpts = append(taskOpts, huh.NewOption(t.String(), t))

		task := t
		minuteFields = append(minuteFields, huh.NewInput().
			Title(fmt.Sprintf("%s minutes", task)).
			Description(fmt.Sprintf("0-%d, rounded to %d", task.MaxMinutes(), model.MinuteStep)).
			Value(&minutes[task]).
			Validate(func(s string) error {
				_, err := parseMinutes(s, task)
				return err
			}))
	}

	learningTypes := make([]string, 0, len(model.LearningTypes))
	for _, lt := range model.LearningTypes {
		learningTypes = append(learningTypes, string(lt))
	}
	if e.ReadingBook == "" {
		e.ReadingBook = bookPlaceholder
	}
	if e.EntertainmentItem == "" {
		e.EntertainmentItem = watchPlaceholder
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[model.Task]().
				Title("Done today").
				Options(taskOpts...).
				Value(&done),
		),
		huh.NewGroup(minuteFields...),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Learning type").
				Options(huh.NewOptions(learningTypes...)...).
				Value(&e.LearningType),
			huh.NewSelect[string]().
				Title("Book").
				Options(huh.NewOptions(append([]string{bookPlaceholder}, books...)...)...).
				Value(&e.ReadingBook),
			huh.NewSelect[string]().
				Title("Watched").
				Options(huh.NewOptions(append([]string{watchPlaceholder}, items...)...)...).
				Value(&e.EntertainmentItem),
			huh.NewSelect[int]().
				Title("Mood").
				Options(huh.NewOptions(1, 2, 3, 4, 5)...).
				Value(&e.Mood),
			huh.NewText().
				Title("Notes").
				Value(&e.Notes),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	for _, t := range model.Tasks {
		m, err := parseMinutes(minutes[t], t)
		if err != nil {
			return err
		}
		e.SetActivity(t, model.Activity{Done: containsTask(done, t), Minutes: m})
	}
	return nil
}

// parseMinutes reads a form value and snaps it to the minute step.
func parseMinutes(s string, t model.Task) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number of minutes", s)
	}
	if n < 0 || n > t.MaxMinutes() {
		return 0, fmt.Errorf("%s minutes must be between 0 and %d", t, t.MaxMinutes())
	}
	return timecalc.SnapMinutes(n, model.MinuteStep, t.MaxMinutes()), nil
}

func containsTask(tasks []model.Task, t model.Task) bool {
	for _, x := range tasks {
		if x == t {
			return true
		}
	}
	return false
}

// doneTasks lists the tasks marked done, with their time when recorded.
func doneTasks(e model.DailyEntry) []string {
	var out []string
	for _, t := range model.Tasks {
		a := e.Activity(t)
		if !a.Done {
			continue
		}
		if a.Minutes > 0 {
			out = append(out, fmt.Sprintf("%s (%s)", t, timecalc.FormatMinutes(a.Minutes)))
		} else {
			out = append(out, t.String())
		}
	}
	return out
}

func learningTypeList() string {
	names := make([]string, 0, len(model.LearningTypes))
	for _, lt := range model.LearningTypes {
		names = append(names, fmt.Sprintf("%q", lt))
	}
	return strings.Join(names, ", ")
}
