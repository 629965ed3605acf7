package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/timecalc"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 2).
	MarginBottom(1)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's date card and check-ins",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	now := time.Now()
	fmt.Println(bannerStyle.Render(timecalc.DayBanner(now)))

	entries := openTracker(cmd.Context()).Today(cmd.Context())
	if len(entries) == 0 {
		fmt.Println("No check-in yet. Run `spt checkin` to add one.")
		return nil
	}
	printList(color.Output, entries)
	return nil
}
