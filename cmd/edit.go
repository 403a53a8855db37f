package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var (
	editService       string
	editUsername      string
	editPassword      bool
	editPasswordStdin bool
)

func init() {
	editCmd.Flags().StringVar(&editService, "service", "", "new service name")
	editCmd.Flags().StringVar(&editUsername, "username", "", "new username")
	editCmd.Flags().BoolVarP(&editPassword, "password", "p", false, "prompt for a new password")
	editCmd.Flags().BoolVar(&editPasswordStdin, "password-stdin", false, "read the new password from stdin")
}

func resetEditCommandState() {
	editService = ""
	editUsername = ""
	editPassword = false
	editPasswordStdin = false
}

var editCmd = &cobra.Command{
	Use:   "edit <service> <username>",
	Short: "Change a stored credential",
	Long: `Changes the service, username or password of a stored credential. Values
that are not given are kept. The credential keeps its position in the vault.

Examples:
  securevault edit Gmail alice@gmail.com --password
  securevault edit Gmail alice@gmail.com --service Google
  echo 'n3w' | securevault edit GitHub alice --password-stdin`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting edit command")
	ctx := context.Background()

	if editService == "" && editUsername == "" && !editPassword && !editPasswordStdin {
		fmt.Println(ui.Warning.Sprint("⚠") + " Nothing to change\n" +
			ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--service") + ", " + ui.Flag.Sprint("--username") + " or " + ui.Flag.Sprint("--password"))
		return nil
	}

	session, err := unlockSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	old, err := findRecord(session, args[0], args[1])
	if err != nil {
		return fail(err)
	}

	service, username, secret := old.Service, old.Username, old.Secret
	if editService != "" {
		service = editService
	}
	if editUsername != "" {
		username = editUsername
	}
	if editPassword || editPasswordStdin {
		if secret, err = readSecret(editPasswordStdin, "New password: "); err != nil {
			return fail(err)
		}
	}

	updated, err := session.Modify(ctx, old, service, username, secret)
	if err != nil {
		return fail(err)
	}

	fmt.Println(ui.Success.Sprint("✓") + " Updated " + ui.Highlight.Sprint(updated.String()))
	return nil
}
