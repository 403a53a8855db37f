package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/securevault/internal/cipher"
	"github.com/PolarWolf314/securevault/internal/configs"
	"github.com/PolarWolf314/securevault/internal/keys"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configInitForce bool
	configShowJSON  bool

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage SecureVault configuration",
		Long: `Provides commands for managing the config file.

Settings are resolved in this order, later sources winning:
  1. Built-in defaults
  2. The config file (<home>/config.toml)
  3. Environment variables (SECUREVAULT_HOME, SECUREVAULT_CIPHER)
  4. Command-line flags (--home, --cipher, --config)

Examples:
  # Write a config file with the current settings
  securevault config init

  # Show the effective settings
  securevault config show`,
	}
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	configInitForce = false
	configShowJSON = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file",
	Long: `Writes the effective settings to the config file so they can be edited.

Examples:
  securevault config init
  securevault --cipher secretbox config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		if _, err := os.Stat(Settings.ConfigFile); err == nil && !configInitForce {
			fmt.Println(ui.Warning.Sprint("⚠") + " A config file already exists at " + ui.Path.Sprint(Settings.ConfigFile) + "\n" +
				ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to overwrite it")
			return nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fail(err)
		}

		if _, err := cipher.New(Settings.Cipher, keys.Key{}); err != nil {
			return fail(err)
		}

		if err := configs.Save(Settings); err != nil {
			return fail(err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Config written to " + ui.Path.Sprint(Settings.ConfigFile))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		if configShowJSON {
			data, err := json.MarshalIndent(configs.FileConfigFrom(Settings), "", "  ")
			if err != nil {
				return fail(fmt.Errorf("failed to marshal config to JSON: %w", err))
			}
			fmt.Println(string(data))
			return nil
		}

		cipherName := Settings.Cipher
		if cipherName == "" {
			cipherName = cipher.Default
		}

		fmt.Println(ui.Info.Sprint("Settings") + " (" + ui.Path.Sprint(Settings.ConfigFile) + "):")
		fmt.Println()
		fmt.Printf("  %-22s %s\n", "Data directory:", ui.Path.Sprint(Settings.DataDir))
		fmt.Printf("  %-22s %s\n", "Vault file:", ui.Path.Sprint(Settings.VaultFile))
		fmt.Printf("  %-22s %s\n", "Key file:", ui.Path.Sprint(Settings.KeyFile))
		fmt.Printf("  %-22s %s\n", "Master digest:", ui.Path.Sprint(Settings.MasterFile))
		fmt.Printf("  %-22s %s\n", "Journal:", ui.Path.Sprint(Settings.AuditFile))
		fmt.Printf("  %-22s %s\n", "Operator log:", ui.Path.Sprint(Settings.OperatorLogFile))
		fmt.Printf("  %-22s %s\n", "Cipher:", cipherName)
		fmt.Printf("  %-22s %d\n", "Min passphrase length:", Settings.MinPassphraseLength)
		fmt.Printf("  %-22s %d\n", "Max attempts:", Settings.MaxAttempts)
		fmt.Printf("  %-22s %s\n", "Reveal delay:", Settings.RevealDelay)
		fmt.Printf("  %-22s %t\n", "Journal enabled:", Settings.Audit)
		fmt.Printf("  %-22s %t\n", "Notifications:", Settings.Notify)
		return nil
	},
}
