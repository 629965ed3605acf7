package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set at build time with -ldflags "-X github.com/Tiliavir/stress-proof-tracker/cmd.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	versionShort  bool
	versionOutput string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the spt version",
	Args:  cobra.NoArgs,
	// No config or logging needed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Print(goversion.FuncWithOutput(versionShort, version, commit, date, versionOutput))
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Print just the version number")
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "json", "Output format. One of 'yaml' or 'json'")
}
