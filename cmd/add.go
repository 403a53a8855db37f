package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/securevault/internal/record"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var (
	addCategory      string
	addPasswordStdin bool
)

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category for this session's grouping")
	addCmd.Flags().BoolVar(&addPasswordStdin, "password-stdin", false, "read the password from stdin")
}

func resetAddCommandState() {
	addCategory = ""
	addPasswordStdin = false
}

var addCmd = &cobra.Command{
	Use:   "add <service> <username>",
	Short: "Store a new credential",
	Long: `Stores a new credential in the vault.

The password is read from a hidden prompt, or from stdin with
--password-stdin. Service and username may not contain any of ; | & " < >.
The password is stored exactly as entered.

Examples:
  securevault add Gmail alice@gmail.com
  pass generate | securevault add GitHub alice --password-stdin`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting add command")
	ctx := context.Background()

	session, err := unlockSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	secret, err := readSecret(addPasswordStdin, "Password for "+args[0]+": ")
	if err != nil {
		return fail(err)
	}

	if session.Repository().HasMatching(func(r record.Record) bool {
		return strings.EqualFold(r.Service, args[0]) && strings.EqualFold(r.Username, args[1])
	}) {
		Logger.Warnf("A credential for %s (%s) is already stored", args[0], args[1])
	}

	r, err := session.Add(ctx, addCategory, args[0], args[1], secret)
	if err != nil {
		return fail(err)
	}

	Logger.Debugf("Vault now holds %d records", session.Repository().Count())
	fmt.Println(ui.Success.Sprint("✓") + " Added " + ui.Highlight.Sprint(r.String()))
	return nil
}
