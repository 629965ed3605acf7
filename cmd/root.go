package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/config"
	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
	"github.com/Tiliavir/stress-proof-tracker/internal/model"
	"github.com/Tiliavir/stress-proof-tracker/internal/sheets"
	"github.com/Tiliavir/stress-proof-tracker/internal/storage"
	"github.com/Tiliavir/stress-proof-tracker/internal/tracker"
)

var (
	debug bool
	cfg   config.Config
)

var rootCmd = &cobra.Command{
	Use:   "spt",
	Short: "Stress-proof tracker – a daily habit and mood check-in",
	Long: `spt records one short check-in per day (work, gym, learning, reading,
entertainment and mood), keeps a reading list and a watchlist, and reports
on the last week or two.

Tables are plain CSV files beside the executable (or in data_dir). When a
Google spreadsheet is configured every write is mirrored to it as well.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output to stderr")

	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c

	dir, err := cfg.DataPath()
	if err != nil {
		exitStorage(err)
	}
	if err := logger.Init(logger.Config{Debug: debug, Dir: dir}); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: logging disabled:", err)
	}
	logger.Debug("starting", "command", cmd.CommandPath(), "data_dir", dir)
	return nil
}

// exitStorage reports a storage failure and exits with status 2.
func exitStorage(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

// userError passes validation failures back to cobra (exit status 1) and
// treats anything else as a storage failure.
func userError(err error) error {
	if err == nil {
		return nil
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	exitStorage(err)
	return nil
}

// openBackend returns the local backend, mirrored to the spreadsheet when
// one is configured. A remote that cannot be opened is reported and skipped.
func openBackend(ctx context.Context) storage.Backend {
	dir, err := cfg.DataPath()
	if err != nil {
		exitStorage(err)
	}

	remote, err := cfg.ResolveRemote()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: remote storage disabled:", err)
		logger.Warn("remote storage disabled", "err", err)
		return storage.New(dir, nil)
	}
	if !remote.Enabled() {
		if remote.SpreadsheetID != "" {
			logger.Warn("spreadsheet configured without credentials, using local storage only")
		}
		return storage.New(dir, nil)
	}

	b, err := sheets.Open(ctx, remote.SpreadsheetID, remote.Credentials)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: remote storage disabled:", err)
		logger.Warn("remote storage disabled", "err", err)
		return storage.New(dir, nil)
	}
	return storage.New(dir, b)
}

func openTracker(ctx context.Context) *tracker.Tracker {
	return tracker.New(openBackend(ctx))
}
