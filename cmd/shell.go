package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/export"
	"github.com/PolarWolf314/securevault/internal/feed"
	"github.com/PolarWolf314/securevault/internal/record"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive session",
	Long: `Unlocks the vault once and opens a menu for managing credentials.

A revealed password is hidden again after the configured reveal delay
(5 seconds by default) by clearing the terminal. Exports run in the
background while the menu stays usable.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// shell is one interactive session.
type shell struct {
	ctx     context.Context
	session *workflows.Session
	exports []*workflows.ExportJob
}

type menuItem struct {
	label string
	run   func() error
}

func runShell(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting shell command")
	ctx := context.Background()

	fmt.Print(ui.Banner("SecureVault"))
	fmt.Println()

	session, err := unlockSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	if Settings.Notify {
		unsubscribe := session.Feed().Subscribe(feed.SubscriberFunc(printNotice))
		defer unsubscribe()
	}

	sh := &shell{ctx: ctx, session: session}
	err = sh.loop()
	sh.finish()
	if err != nil {
		return fail(err)
	}
	return nil
}

func (sh *shell) menu() []menuItem {
	return []menuItem{
		{"Add credential", sh.add},
		{"List credentials", sh.list},
		{"Search", sh.search},
		{"Edit credential", sh.edit},
		{"Remove credential", sh.remove},
		{"Browse categories", sh.browse},
		{"Statistics", sh.stats},
		{"Export to CSV", sh.export},
		{"Change master passphrase", sh.passwd},
		{"Check vault", sh.check},
	}
}

func (sh *shell) loop() error {
	items := sh.menu()
	for {
		sh.reportExports()

		fmt.Println()
		for i, item := range items {
			fmt.Printf("  %2d) %s\n", i+1, item.label)
		}
		fmt.Printf("  %2d) %s\n", 0, "Quit")
		fmt.Println()

		choice, err := readLine("Choose an option: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 0 || n > len(items) {
			fmt.Println(ui.Error.Sprint("✗") + " Invalid choice " + ui.Highlight.Sprint(choice))
			continue
		}
		if n == 0 {
			return nil
		}

		Logger.Debugf("Shell action: %s", items[n-1].label)
		if err := items[n-1].run(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			fmt.Println(formatError(err))
		}
	}
}

// finish waits for running exports and prints the session summary.
func (sh *shell) finish() {
	if len(sh.exports) > 0 {
		fmt.Printf("Waiting for %d export(s) to finish...\n", len(sh.exports))
		for _, job := range sh.exports {
			sh.printExport(job)
		}
		sh.exports = nil
	}

	counter := sh.session.Counter()
	fmt.Printf("Session summary: %d added, %d modified, %d removed\n",
		counter.Count(feed.KindAdded), counter.Count(feed.KindModified), counter.Count(feed.KindRemoved))
}

func (sh *shell) add() error {
	service, err := readLine("Service: ")
	if err != nil {
		return err
	}
	username, err := readLine("Username: ")
	if err != nil {
		return err
	}
	category, err := readLine("Category (enter for Default): ")
	if err != nil {
		return err
	}
	secret, err := readPassphrase("Password: ")
	if err != nil {
		return err
	}

	r, err := sh.session.Add(sh.ctx, category, service, username, string(secret))
	if err != nil {
		return err
	}
	fmt.Println(ui.Success.Sprint("✓") + " Added " + ui.Highlight.Sprint(r.String()))
	return nil
}

func (sh *shell) list() error {
	records := sh.session.Records()
	if len(records) == 0 {
		fmt.Println("No credentials stored.")
		return nil
	}
	return ui.RenderRecords(os.Stdout, records, false)
}

func (sh *shell) search() error {
	query, err := readLine("Search for: ")
	if err != nil {
		return err
	}
	mode, err := readLine("Match (s)ervice or (u)sername [s]: ")
	if err != nil {
		return err
	}

	field := workflows.SearchService
	if strings.HasPrefix(strings.ToLower(mode), "u") {
		field = workflows.SearchUsername
	}

	matches, err := sh.session.Search(sh.ctx, query, field)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No credentials match " + ui.Highlight.Sprint(query) + ".")
		return nil
	}
	if err := ui.RenderRecords(os.Stdout, matches, false); err != nil {
		return err
	}

	r, ok, err := pick("Reveal password # (enter to skip): ", matches)
	if err != nil || !ok {
		return err
	}
	sh.reveal(r)
	return nil
}

// reveal shows a secret and clears the terminal after the reveal delay.
func (sh *shell) reveal(r record.Record) {
	fmt.Printf("Password for %s: %s\n", ui.Highlight.Sprint(r.String()), r.Secret)

	delay := Settings.RevealDelay
	if delay <= 0 || !utils.IsTTYAvailable() {
		return
	}
	fmt.Println(ui.Muted.Sprintf("hidden in %s", delay))

	select {
	case <-time.After(delay):
	case <-sh.ctx.Done():
	}

	if err := utils.ClearScreen(); err != nil {
		Logger.Debugf("Could not clear the terminal: %v", err)
	}
}

func (sh *shell) edit() error {
	records := sh.session.Records()
	if len(records) == 0 {
		fmt.Println("No credentials stored.")
		return nil
	}
	if err := ui.RenderRecords(os.Stdout, records, false); err != nil {
		return err
	}

	old, ok, err := pick("Edit # (enter to cancel): ", records)
	if err != nil || !ok {
		return err
	}

	service, err := readLine(fmt.Sprintf("Service [%s]: ", old.Service))
	if err != nil {
		return err
	}
	username, err := readLine(fmt.Sprintf("Username [%s]: ", old.Username))
	if err != nil {
		return err
	}
	secret, err := readPassphrase("New password (enter to keep): ")
	if err != nil {
		return err
	}

	if service == "" {
		service = old.Service
	}
	if username == "" {
		username = old.Username
	}
	if len(secret) == 0 {
		secret = []byte(old.Secret)
	}

	updated, err := sh.session.Modify(sh.ctx, old, service, username, string(secret))
	if err != nil {
		return err
	}
	fmt.Println(ui.Success.Sprint("✓") + " Updated " + ui.Highlight.Sprint(updated.String()))
	return nil
}

func (sh *shell) remove() error {
	records := sh.session.Records()
	if len(records) == 0 {
		fmt.Println("No credentials stored.")
		return nil
	}
	if err := ui.RenderRecords(os.Stdout, records, false); err != nil {
		return err
	}

	r, ok, err := pick("Remove # (enter to cancel): ", records)
	if err != nil || !ok {
		return err
	}

	confirm, err := readLine(fmt.Sprintf("Remove %s? [y/N]: ", r.String()))
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes") {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := sh.session.Remove(sh.ctx, r); err != nil {
		return err
	}
	fmt.Println(ui.Success.Sprint("✓") + " Removed " + ui.Highlight.Sprint(r.String()))
	return nil
}

func (sh *shell) browse() error {
	return sh.session.Repository().Tree().Render(os.Stdout)
}

func (sh *shell) stats() error {
	printStats(sh.session)
	return nil
}

func (sh *shell) export() error {
	def := export.DefaultDestination(time.Now())
	dest, err := readLine(fmt.Sprintf("File name [%s]: ", def))
	if err != nil {
		return err
	}
	if dest == "" {
		dest = def
	}

	job, err := sh.session.Export(sh.ctx, dest)
	if err != nil {
		return err
	}
	sh.exports = append(sh.exports, job)
	fmt.Println(ui.Info.Sprint("→") + " Export started in the background")
	return nil
}

// reportExports prints exports that have finished since the last prompt.
func (sh *shell) reportExports() {
	running := sh.exports[:0]
	for _, job := range sh.exports {
		select {
		case <-job.Done():
			sh.printExport(job)
		default:
			running = append(running, job)
		}
	}
	sh.exports = running
}

func (sh *shell) printExport(job *workflows.ExportJob) {
	result, err := job.Wait()
	if err != nil {
		fmt.Println(formatError(err))
		return
	}
	fmt.Println(ui.Success.Sprint("✓") + fmt.Sprintf(" Exported %d credential(s) to ", result.Rows) + ui.Path.Sprint(result.Path))
	if result.Failed > 0 {
		fmt.Println(ui.Warning.Sprint("⚠") + fmt.Sprintf(" %d password(s) could not be encrypted and were left empty", result.Failed))
	}
}

func (sh *shell) passwd() error {
	current, err := readPassphrase("Current master passphrase: ")
	if err != nil {
		return err
	}
	next, err := readNewPassphrase("New master passphrase: ")
	if err != nil {
		return err
	}
	if err := sh.session.ChangePassphrase(sh.ctx, string(current), next); err != nil {
		return err
	}
	fmt.Println(ui.Success.Sprint("✓") + " Master passphrase changed")
	return nil
}

func (sh *shell) check() error {
	report, err := sh.session.Doctor(sh.ctx)
	if err != nil {
		return err
	}
	fmt.Println(loadCheck(report).Message)
	return nil
}

// pick asks for a 1-based index into records. An empty answer is a cancel.
func pick(prompt string, records []record.Record) (record.Record, bool, error) {
	answer, err := readLine(prompt)
	if err != nil || answer == "" {
		return record.Record{}, false, err
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(records) {
		return record.Record{}, false, fmt.Errorf("%w: %q is not a listed number", kerrors.ErrInvalidInput, answer)
	}
	return records[n-1], true, nil
}

// printNotice reports a change event.
func printNotice(e feed.Event) {
	var msg string
	switch e.Kind {
	case feed.KindAdded:
		msg = "Added " + e.Record.String() + " to " + e.Category
	case feed.KindRemoved:
		msg = "Removed " + e.Record.String() + " from " + e.Category
	case feed.KindModified:
		msg = "Updated " + e.Previous.String() + " to " + e.Record.String()
	case feed.KindCleared:
		msg = "Vault cleared"
	default:
		return
	}
	fmt.Println(ui.Muted.Sprint("notice: " + msg))
}
