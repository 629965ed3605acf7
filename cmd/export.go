package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/model"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every daily check-in to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	entries := openTracker(cmd.Context()).State(cmd.Context()).Entries

	switch exportFormat {
	case "json":
		if entries == nil {
			entries = []model.DailyEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		printMarkdown(os.Stdout, entries)
	case "csv":
		printCSV(os.Stdout, entries)
	default:
		return fmt.Errorf("unknown format %q (use csv, json or md)", exportFormat)
	}
	return nil
}

// printCSV writes entries in the same column layout as the daily table.
func printCSV(w io.Writer, entries []model.DailyEntry) {
	fmt.Fprintln(w, strings.Join(model.DailySchema.Header(), ","))
	for _, e := range entries {
		row := model.EncodeDaily(e)
		for i := range row {
			row[i] = csvEscape(row[i])
		}
		fmt.Fprintln(w, strings.Join(row, ","))
	}
}

// printMarkdown writes entries as a Markdown table, one row per check-in.
func printMarkdown(w io.Writer, entries []model.DailyEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}
	cols := []string{"Date"}
	for _, t := range model.Tasks {
		cols = append(cols, t.String())
	}
	cols = append(cols, "Mood", "Notes")
	fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	fmt.Fprintf(w, "|%s\n", strings.Repeat("---|", len(cols)))

	for _, e := range entries {
		cells := []string{e.Date}
		for _, t := range model.Tasks {
			cells = append(cells, mdEscape(activityCell(e, t)))
		}
		cells = append(cells, fmt.Sprint(e.Mood), mdEscape(e.Notes))
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
