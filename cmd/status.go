package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/config"
	"github.com/Tiliavir/stress-proof-tracker/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where data is stored and what has been recorded",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()

	dir, err := cfg.DataPath()
	if err != nil {
		exitStorage(err)
	}
	path, err := config.FilePath()
	if err != nil {
		exitStorage(err)
	}

	tr := openTracker(cmd.Context())
	st := tr.State(cmd.Context())

	fmt.Printf("Config:    %s\n", path)
	fmt.Printf("Data:      %s\n", dir)
	fmt.Printf("Backend:   %s\n", tr.Backend().Name())
	fmt.Printf("Check-ins: %d\n", len(st.Entries))
	fmt.Printf("Books:     %d (%d unfinished)\n", len(st.Books), len(model.UnfinishedBooks(st.Books)))
	fmt.Printf("Watchlist: %d (%d unfinished)\n", len(st.Watchlist), len(model.UnfinishedItems(st.Watchlist)))

	if today := entriesOn(st.Entries, now); len(today) > 0 {
		fmt.Printf("Today:     checked in (%d).\n", len(today))
	} else {
		fmt.Println("Today:     not checked in yet.")
	}
	return nil
}
