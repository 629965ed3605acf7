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

var bookListAll bool

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage the reading list",
}

var bookAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a book to the reading list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBookAdd,
}

var bookFinishCmd = &cobra.Command{
	Use:   "finish <title>",
	Short: "Mark a book as finished",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBookFinish,
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books still being read",
	Args:  cobra.NoArgs,
	RunE:  runBookList,
}

func init() {
	bookListCmd.Flags().BoolVar(&bookListAll, "all", false, "Include finished books")

	bookCmd.AddCommand(bookAddCmd)
	bookCmd.AddCommand(bookFinishCmd)
	bookCmd.AddCommand(bookListCmd)
}

func runBookAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	st, err := openTracker(cmd.Context()).AddBook(cmd.Context(), title)
	if err != nil {
		return userError(err)
	}
	fmt.Printf("Added %q. %d books on the list.\n", title, len(st.Books))
	return nil
}

func runBookFinish(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	n, _, err := openTracker(cmd.Context()).FinishBook(cmd.Context(), title)
	if err != nil {
		return userError(err)
	}
	if n == 0 {
		fmt.Printf("No matching book: %q\n", title)
		return nil
	}
	fmt.Printf("Finished %q.\n", title)
	return nil
}

func runBookList(cmd *cobra.Command, args []string) error {
	st := openTracker(cmd.Context()).State(cmd.Context())
	printBooks(color.Output, st.Books, bookListAll)
	return nil
}

func printBooks(w io.Writer, books []model.BookEntry, all bool) {
	tbl := uitable.New()
	tbl.MaxColWidth = 60
	bold := color.New(color.Bold)
	tbl.AddRow(bold.Sprint("Title"), bold.Sprint("Status"))

	rows := 0
	for _, b := range books {
		if b.Finished && !all {
			continue
		}
		tbl.AddRow(b.Title, status(b.Finished))
		rows++
	}
	if rows == 0 {
		fmt.Fprintln(w, "No books on the list.")
		return
	}
	fmt.Fprintln(w, tbl)
}

func status(finished bool) string {
	if finished {
		return color.GreenString("finished")
	}
	return color.YellowString("reading")
}
