package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the master passphrase",
	Long: `Changes the master passphrase. The record key is not affected, so the
vault file is not rewritten.`,
	Args: cobra.NoArgs,
	RunE: runPasswd,
}

func runPasswd(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting passwd command")
	ctx := context.Background()

	current, err := readPassphrase("Current master passphrase: ")
	if err != nil {
		return fail(err)
	}

	session, err := unlockWith(ctx, string(current))
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	next, err := readNewPassphrase("New master passphrase: ")
	if err != nil {
		return fail(err)
	}

	if err := session.ChangePassphrase(ctx, string(current), next); err != nil {
		return fail(err)
	}

	fmt.Println(ui.Success.Sprint("✓") + " Master passphrase changed")
	return nil
}
