package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	searchUsername bool
	searchReveal   bool
)

func init() {
	searchCmd.Flags().BoolVarP(&searchUsername, "username", "u", false, "match usernames instead of services")
	searchCmd.Flags().BoolVar(&searchReveal, "reveal", false, "show passwords in plain text")
}

func resetSearchCommandState() {
	searchUsername = false
	searchReveal = false
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find credentials by service or username",
	Long: `Lists credentials whose service (or username, with --username) contains
the query, ignoring case.

Examples:
  securevault search mail
  securevault search alice --username
  securevault search github --reveal`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting search command")
	ctx := context.Background()

	session, err := unlockSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	field := workflows.SearchService
	if searchUsername {
		field = workflows.SearchUsername
	}

	matches, err := session.Search(ctx, args[0], field)
	if err != nil {
		return fail(err)
	}
	Logger.Debugf("Search for %q matched %d records", args[0], len(matches))

	if len(matches) == 0 {
		fmt.Println("No credentials match " + ui.Highlight.Sprint(args[0]) + ".")
		return nil
	}
	return ui.RenderRecords(os.Stdout, matches, searchReveal)
}
