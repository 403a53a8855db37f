package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/PolarWolf314/securevault/internal/record"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	listReveal     bool
	listCategory   string
	listTree       bool
	listStats      bool
	listDuplicates bool
	listJSON       bool
)

func init() {
	listCmd.Flags().BoolVar(&listReveal, "reveal", false, "show passwords in plain text")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only list this category")
	listCmd.Flags().BoolVar(&listTree, "tree", false, "show records grouped in a folder tree")
	listCmd.Flags().BoolVar(&listStats, "stats", false, "show record counts per category and service")
	listCmd.Flags().BoolVar(&listDuplicates, "duplicates", false, "only list records sharing a service and username")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON (passwords masked unless --reveal)")
}

func resetListCommandState() {
	listReveal = false
	listCategory = ""
	listTree = false
	listStats = false
	listDuplicates = false
	listJSON = false
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Long: `Lists the credentials in the vault. Passwords are masked unless
--reveal is given.

Examples:
  securevault list
  securevault list --reveal
  securevault list --tree
  securevault list --stats
  securevault list --duplicates
  securevault list --json`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting list command")

	session, err := unlockSession(context.Background())
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	repo := session.Repository()

	switch {
	case listTree:
		return repo.Tree().Render(os.Stdout)
	case listStats:
		printStats(session)
		return nil
	}

	var records []record.Record
	switch {
	case listDuplicates:
		records = repo.FindDuplicates()
	case listCategory != "":
		records = repo.ByCategory(listCategory)
	default:
		records = session.Records()
	}
	Logger.Debugf("Listing %d of %d records", len(records), repo.Count())

	if listJSON {
		return outputRecordsJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("No credentials found.")
		return nil
	}
	return ui.RenderRecords(os.Stdout, records, listReveal)
}

// listedRecord is the JSON shape of one listed credential.
type listedRecord struct {
	Service  string `json:"service"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func outputRecordsJSON(records []record.Record) error {
	listed := make([]listedRecord, 0, len(records))
	for _, r := range records {
		password := utils.MaskSecret(r.Secret)
		if listReveal {
			password = r.Secret
		}
		listed = append(listed, listedRecord{Service: r.Service, Username: r.Username, Password: password})
	}
	data, err := json.MarshalIndent(listed, "", "  ")
	if err != nil {
		return fail(fmt.Errorf("failed to marshal records to JSON: %w", err))
	}
	fmt.Println(string(data))
	return nil
}

func printStats(session *workflows.Session) {
	repo := session.Repository()
	stats := repo.CategoryStatistics()

	fmt.Printf("%d credential(s)\n", repo.Count())
	if repo.Count() == 0 {
		return
	}

	fmt.Println()
	fmt.Println(ui.Info.Sprint("Categories:"))
	for _, category := range repo.TopCategories(len(stats)) {
		fmt.Printf("  %-20s %d\n", category, stats[category])
	}

	fmt.Println()
	fmt.Println(ui.Info.Sprint("Services:"))
	groups := repo.GroupByService()
	services := make([]string, 0, len(groups))
	for service := range groups {
		services = append(services, service)
	}
	sort.Strings(services)
	for _, service := range services {
		fmt.Printf("  %-20s %d\n", service, len(groups[service]))
	}

	if dupes := repo.FindDuplicates(); len(dupes) > 0 {
		fmt.Println()
		fmt.Printf("%s %d credential(s) share a service and username\n", ui.Warning.Sprint("⚠"), len(dupes))
	}
}
