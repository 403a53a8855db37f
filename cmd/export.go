package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/PolarWolf314/securevault/internal/export"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [destination]",
	Short: "Write the vault to a CSV file",
	Long: `Writes every credential to a CSV file with the columns
Service,Username,EncryptedPassword.

Passwords are written as cipher tokens, never in plain text. If no
destination is given, securevault-export-YYYY-MM-DD.csv is written to the
current directory. A .csv extension is added when the name has none.

Examples:
  securevault export
  securevault export backup
  securevault export ~/backups/vault.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting export command")
	ctx := context.Background()

	dest := export.DefaultDestination(time.Now())
	if len(args) == 1 {
		dest = args[0]
	}

	session, err := unlockSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	spinner, cleanup := startSpinner(fmt.Sprintf("Exporting %d credential(s)...", session.Repository().Count()))
	defer cleanup()

	job, err := session.Export(ctx, dest)
	if err != nil {
		return failWith(spinner, err)
	}

	result, err := job.Wait()
	if err != nil {
		return failWith(spinner, err)
	}
	Logger.Debugf("Export finished in %s", result.Duration)

	msg := ui.Success.Sprint("✓") + fmt.Sprintf(" Exported %d credential(s) to ", result.Rows) + ui.Path.Sprint(result.Path)
	if result.Failed > 0 {
		msg += "\n" + ui.Warning.Sprint("⚠") + fmt.Sprintf(" %d password(s) could not be encrypted and were left empty", result.Failed)
	}
	spinner.FinalMSG = msg
	return nil
}
