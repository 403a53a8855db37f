package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new vault",
	Long: `Creates a new vault in the data directory.

You will be asked for a master passphrase twice. The passphrase must be at
least as long as the configured minimum (8 characters by default). A new
record key, an empty vault file and a config file are written.

If a record key already exists it is kept, so that an existing vault file
stays readable.

Examples:
  securevault init
  securevault init --home ~/vaults/work --cipher xchacha20-poly1305`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")

	passphrase, err := readNewPassphrase("New master passphrase: ")
	if err != nil {
		return fail(err)
	}

	spinner, cleanup := startSpinner("Initializing vault...")
	defer cleanup()

	result, err := workflows.Init(context.Background(), workflows.InitOptions{
		Settings:   Settings,
		Passphrase: passphrase,
		Logger:     Logger,
	})
	if err != nil {
		return failWith(spinner, err)
	}

	Logger.Infof("Vault initialized with cipher %s", result.Cipher)

	msg := ui.Success.Sprint("✓") + " Vault initialized at " + ui.Path.Sprint(result.DataDir) + "\n" +
		fmt.Sprintf("  %-12s %s\n", "Cipher:", result.Cipher) +
		fmt.Sprintf("  %-12s %s", "Key:", ui.Highlight.Sprint(result.KeyFingerprint))
	if !result.KeyCreated {
		msg += "\n" + ui.Warning.Sprint("⚠") + " An existing record key was reused"
	}
	created := []string{Settings.MasterFile, Settings.VaultFile}
	if result.KeyCreated {
		created = append(created, Settings.KeyFile)
	}
	if result.ConfigWritten {
		created = append(created, Settings.ConfigFile)
	}
	msg += "\n  Files:" + strings.TrimSuffix(utils.FormatPaths(created), "\n")
	msg += "\n" + ui.Info.Sprint("→") + " Keep a backup of " + ui.Path.Sprint(Settings.KeyFile) + ", records cannot be read without it"
	spinner.FinalMSG = msg
	return nil
}
