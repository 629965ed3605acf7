package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/stress-proof-tracker/internal/keyring"
	"github.com/Tiliavir/stress-proof-tracker/internal/sheets"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the spreadsheet service account key in the OS keyring",
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set <key.json>",
	Short: "Store a service account key file in the keyring",
	Args:  cobra.ExactArgs(1),
	RunE:  runCredentialsSet,
}

var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored key",
	Args:  cobra.NoArgs,
	RunE:  runCredentialsDelete,
}

var credentialsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether remote storage is configured",
	Args:  cobra.NoArgs,
	RunE:  runCredentialsStatus,
}

func init() {
	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsDeleteCmd)
	credentialsCmd.AddCommand(credentialsStatusCmd)
}

func runCredentialsSet(cmd *cobra.Command, args []string) error {
	path, err := homedir.Expand(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading key file: %w", err)
	}
	creds, err := sheets.ParseCredentials(data)
	if err != nil {
		return err
	}
	if err := keyring.SetCredentials(string(data)); err != nil {
		exitStorage(err)
	}
	fmt.Printf("Stored key for %s in the OS keyring.\n", creds.ClientEmail)
	if cfg.Remote.SpreadsheetID == "" {
		fmt.Println("Set remote.spreadsheet_id in the config to start mirroring.")
	}
	return nil
}

func runCredentialsDelete(cmd *cobra.Command, args []string) error {
	err := keyring.DeleteCredentials()
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("No key stored.")
	case err != nil:
		exitStorage(err)
	default:
		fmt.Println("Key removed from the OS keyring.")
	}
	return nil
}

func runCredentialsStatus(cmd *cobra.Command, args []string) error {
	if cfg.Remote.SpreadsheetID == "" {
		fmt.Println("Spreadsheet: not configured (local storage only)")
	} else {
		fmt.Printf("Spreadsheet: %s\n", cfg.Remote.SpreadsheetID)
	}

	if !keyring.IsAvailable() {
		fmt.Println("Keyring:     unavailable")
	} else if _, err := keyring.GetCredentials(); err == nil {
		fmt.Println("Keyring:     key stored")
	} else {
		fmt.Println("Keyring:     no key stored")
	}

	remote, err := cfg.ResolveRemote()
	if err != nil {
		return err
	}
	if remote.Enabled() {
		fmt.Println("Remote:      enabled")
	} else {
		fmt.Println("Remote:      disabled")
	}
	return nil
}
