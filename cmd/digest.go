package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/api"
	"github.com/Tiliavir/stress-proof-tracker/internal/digest"
	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Show the latest headlines from the configured feeds",
	Args:  cobra.NoArgs,
	RunE:  runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	items, err := newFetcher().Fetch(cmd.Context())
	if err != nil {
		logger.Warn("digest unavailable", "err", err)
	}
	printDigest(color.Output, items)
	return nil
}

// newFetcher builds the digest fetcher with its cache under the data dir.
func newFetcher() *digest.Fetcher {
	opts := []digest.Option{digest.WithTTL(cfg.DigestTTL())}
	if dir, err := cfg.DataPath(); err == nil {
		opts = append(opts, digest.WithCacheDir(filepath.Join(dir, "cache")))
	} else {
		fmt.Fprintln(os.Stderr, "Warning: digest cache disabled:", err)
	}
	return digest.New(cfg.Digest.Feeds, opts...)
}

func printDigest(w io.Writer, items []digest.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, api.DigestUnavailable)
		return
	}
	source := color.New(color.FgCyan)
	faint := color.New(color.Faint)
	for _, it := range items {
		fmt.Fprintf(w, "%s  %s\n", source.Sprintf("[%s]", it.Source), it.Title)
		if it.Link != "" {
			fmt.Fprintf(w, "    %s\n", faint.Sprint(it.Link))
		}
	}
}
