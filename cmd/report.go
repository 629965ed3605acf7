package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/stats"
	"github.com/Tiliavir/stress-proof-tracker/internal/timecalc"
)

// noData is printed instead of a report while the daily table is empty.
const noData = "No data yet. Start with today."

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show completion, time, mood and distributions",
	Long: `Show the progress report: completion and time spent over the last 7
check-ins, the mood trend over the last 14, and which learning topics, books
and titles took up your days over the whole history.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	switch reportFormat {
	case "md", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q (use md, csv or json)", reportFormat)
	}

	s := openTracker(cmd.Context()).State(cmd.Context()).Summary

	switch reportFormat {
	case "json":
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "csv":
		writeReportCSV(os.Stdout, s)
	default:
		md := reportMarkdown(s)
		if isatty.IsTerminal(os.Stdout.Fd()) {
			if out, err := renderMarkdown(md); err == nil {
				fmt.Print(out)
				return nil
			}
		}
		fmt.Print(md)
	}
	return nil
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// reportMarkdown renders the summary as a Markdown document. Distributions
// without a qualifying entry are left out.
func reportMarkdown(s stats.Summary) string {
	if !s.HasData() {
		return noData + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Progress\n\n%d check-ins recorded.\n\n", s.Entries)

	fmt.Fprintf(&b, "## Completion (last %d)\n\n", s.Window)
	b.WriteString("| Task | Done | |\n|---|---:|---|\n")
	for _, r := range s.Completion {
		fmt.Fprintf(&b, "| %s | %.0f%% | %s |\n", r.Task, r.Percent, bar(r.Percent, 10))
	}

	fmt.Fprintf(&b, "\n## Time spent (last %d)\n\n", s.Window)
	b.WriteString("| Task | Time |\n|---|---:|\n")
	for _, tm := range s.TimeTotals {
		fmt.Fprintf(&b, "| %s | %s |\n", tm.Task, timecalc.FormatMinutes(tm.Minutes))
	}

	fmt.Fprintf(&b, "\n## Mood (last %d)\n\n", len(s.Mood))
	b.WriteString("| Date | Mood | |\n|---|---:|---|\n")
	for _, p := range s.Mood {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", p.Date, p.Mood, strings.Repeat("●", clamp(p.Mood, 0, 5))+strings.Repeat("○", 5-clamp(p.Mood, 0, 5)))
	}

	writeDistribution(&b, "Learning", "Type", s.Learning)
	writeDistribution(&b, "Reading", "Book", s.Reading)
	writeDistribution(&b, "Entertainment", "Title", s.Entertainment)
	return b.String()
}

func writeDistribution(b *strings.Builder, title, column string, counts []stats.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n| %s | Days |\n|---|---:|\n", title, column)
	for _, c := range counts {
		fmt.Fprintf(b, "| %s | %d |\n", mdEscape(c.Value), c.Count)
	}
}

// writeReportCSV writes the summary as section,key,value rows.
func writeReportCSV(w io.Writer, s stats.Summary) {
	if !s.HasData() {
		fmt.Fprintln(w, noData)
		return
	}
	fmt.Fprintln(w, "section,key,value")
	for _, r := range s.Completion {
		fmt.Fprintf(w, "completion_percent,%s,%.1f\n", csvEscape(r.Task.String()), r.Percent)
	}
	for _, tm := range s.TimeTotals {
		fmt.Fprintf(w, "time_minutes,%s,%d\n", csvEscape(tm.Task.String()), tm.Minutes)
	}
	for _, p := range s.Mood {
		fmt.Fprintf(w, "mood,%s,%d\n", csvEscape(p.Date), p.Mood)
	}
	for _, d := range []struct {
		section string
		counts  []stats.Count
	}{
		{"learning", s.Learning},
		{"reading", s.Reading},
		{"entertainment", s.Entertainment},
	} {
		for _, c := range d.counts {
			fmt.Fprintf(w, "%s,%s,%d\n", d.section, csvEscape(c.Value), c.Count)
		}
	}
}

// bar draws a percentage as a fixed-width block bar.
func bar(percent float64, width int) string {
	filled := int(percent/100*float64(width) + 0.5)
	filled = clamp(filled, 0, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mdEscape keeps free text from breaking a table row.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
