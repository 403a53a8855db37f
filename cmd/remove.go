package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/spf13/cobra"
)

var removeAll bool

func init() {
	removeCmd.Flags().BoolVar(&removeAll, "all", false, "delete every credential")
}

func resetRemoveCommandState() {
	removeAll = false
}

var removeCmd = &cobra.Command{
	Use:   "remove <service> <username>",
	Short: "Delete a credential",
	Long: `Deletes the credential with exactly this service and username. If
several credentials match, the first one is deleted.

With --all every credential is deleted after confirmation.

Examples:
  securevault remove Gmail alice@gmail.com
  securevault remove --all`,
	Args: func(cmd *cobra.Command, args []string) error {
		if removeAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting remove command")
	ctx := context.Background()

	session, err := unlockSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	if removeAll {
		return clearVault(ctx, session)
	}

	r, err := findRecord(session, args[0], args[1])
	if err != nil {
		return fail(err)
	}

	if err := session.Remove(ctx, r); err != nil {
		return fail(err)
	}

	fmt.Println(ui.Success.Sprint("✓") + " Removed " + ui.Highlight.Sprint(r.String()))
	return nil
}

func clearVault(ctx context.Context, session *workflows.Session) error {
	count := session.Repository().Count()
	confirm, err := readLine(fmt.Sprintf("Delete all %d credential(s)? Type 'yes' to confirm: ", count))
	if err != nil {
		return fail(err)
	}
	if confirm != "yes" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := session.Clear(ctx); err != nil {
		return fail(err)
	}
	fmt.Println(ui.Success.Sprint("✓") + fmt.Sprintf(" Removed %d credential(s)", count))
	return nil
}
