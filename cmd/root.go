package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/securevault/internal/configs"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	homeDir    string
	cipherName string
	configPath string

	Logger   logger.Logger
	Settings *configs.Settings

	RootCmd = &cobra.Command{
		Use:   "securevault",
		Short: "SecureVault - an encrypted credential store for the command line",
		Long: `SecureVault keeps service credentials in an encrypted vault file.

Every record is encrypted with a symmetric key that never leaves your
machine. The vault is guarded by a master passphrase, which is checked
against a salted digest and is never stored.

Usage:
  securevault <command> [flags]

Run 'securevault shell' for an interactive session, or
'securevault help <command>' for details on a specific command.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if Logger.Operator != nil {
				_ = Logger.Operator.Sync()
			}
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "vault data directory (default $"+configs.EnvHome+" or ~/.local/share/securevault)")
	RootCmd.PersistentFlags().StringVar(&cipherName, "cipher", "", "cipher strategy (see 'securevault ciphers')")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.toml)")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(editCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(passwdCmd)
	RootCmd.AddCommand(shellCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(keyCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(ciphersCmd)
}

// setup resolves the settings and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}

	s, err := configs.Resolve(configs.Overrides{
		Home:       homeDir,
		Cipher:     cipherName,
		ConfigFile: configPath,
	})
	if err != nil {
		var configErr *configs.FileError
		if errors.As(err, &configErr) {
			openOperatorLog(filepath.Join(configErr.DataDir, configs.DefaultOperatorLog))
		}
		return fail(err)
	}
	Settings = s

	openOperatorLog(s.OperatorLogFile)

	Logger.Debugf("Initializing %s with verbose=%t, debug=%t, home=%s", cmd.Name(), verbose, debug, s.DataDir)
	return nil
}

func openOperatorLog(path string) {
	operator, err := logger.NewOperator(path, debug)
	if err != nil {
		Logger.Warnf("Operator log disabled: %v", err)
		return
	}
	Logger.Operator = operator
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := RootCmd.Execute()
	if err == nil {
		return 0
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		// Usage errors from cobra itself.
		Logger.Errorf("%v", err)
	}
	return 1
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	resetFlagState()
	resetInputState()
	doctorExitFunc = os.Exit
}

// resetFlagState resets every flag variable and the resolved settings.
func resetFlagState() {
	verbose = false
	debug = false
	homeDir = ""
	cipherName = ""
	configPath = ""
	Settings = nil
	Logger = logger.Logger{}

	resetAddCommandState()
	resetListCommandState()
	resetSearchCommandState()
	resetRemoveCommandState()
	resetEditCommandState()
	resetDoctorCommandState()
	resetLogCommandState()
	resetKeyCommandState()
	resetConfigCommandState()

	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed marker on every flag to prevent test pollution.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) { flag.Changed = false }
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetCobraFlagState(child)
	}
}
