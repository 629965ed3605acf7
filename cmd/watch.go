package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/model"
)

var (
	watchAddType  string
	watchListType string
	watchListAll  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage the watchlist of movies and series",
}

var watchAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a movie or series to the watchlist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatchAdd,
}

var watchFinishCmd = &cobra.Command{
	Use:   "finish <title>",
	Short: "Mark a watchlist item as finished",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatchFinish,
}

var watchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unfinished movies and series",
	Args:  cobra.NoArgs,
	RunE:  runWatchList,
}

func init() {
	watchAddCmd.Flags().StringVar(&watchAddType, "type", string(model.ItemMovie), "Movie or Series")
	watchListCmd.Flags().StringVar(&watchListType, "type", "", "Only show Movie or Series")
	watchListCmd.Flags().BoolVar(&watchListAll, "all", false, "Include finished items")

	watchCmd.AddCommand(watchAddCmd)
	watchCmd.AddCommand(watchFinishCmd)
	watchCmd.AddCommand(watchListCmd)
}

func runWatchAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	st, err := openTracker(cmd.Context()).AddWatchItem(cmd.Context(), title, model.ItemType(watchAddType))
	if err != nil {
		return userError(err)
	}
	fmt.Printf("Added %q. %d items on the watchlist.\n", title, len(st.Watchlist))
	return nil
}

func runWatchFinish(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	n, _, err := openTracker(cmd.Context()).FinishWatchItem(cmd.Context(), title)
	if err != nil {
		return userError(err)
	}
	if n == 0 {
		fmt.Printf("No matching item: %q\n", title)
		return nil
	}
	fmt.Printf("Finished %q.\n", title)
	return nil
}

func runWatchList(cmd *cobra.Command, args []string) error {
	var only model.ItemType
	if watchListType != "" {
		it, err := model.ParseItemType(watchListType)
		if err != nil {
			return err
		}
		only = it
	}
	st := openTracker(cmd.Context()).State(cmd.Context())
	printWatchlist(color.Output, st.Watchlist, only, watchListAll)
	return nil
}

// printWatchlist prints the watchlist, optionally restricted to one type.
func printWatchlist(w io.Writer, items []model.WatchlistEntry, only model.ItemType, all bool) {
	tbl := uitable.New()
	tbl.MaxColWidth = 60
	bold := color.New(color.Bold)
	tbl.AddRow(bold.Sprint("Title"), bold.Sprint("Type"), bold.Sprint("Status"))

	rows := 0
	for _, it := range items {
		if (it.Finished && !all) || (only != "" && it.ItemType != only) {
			continue
		}
		tbl.AddRow(it.Title, string(it.ItemType), status(it.Finished))
		rows++
	}
	if rows == 0 {
		fmt.Fprintln(w, "Nothing on the watchlist.")
		return
	}
	fmt.Fprintln(w, tbl)
}
