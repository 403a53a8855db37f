package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	doctorDeep       bool
	// doctorExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorDeep, "deep", false, "unlock the vault and check that every record decrypts")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
	doctorDeep = false
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the vault",
	Long: `Runs a series of health checks on the vault files and reports issues.
No passphrase is needed unless --deep is given.

The doctor command checks:
  - Config file validity
  - Master passphrase digest presence and format
  - Record key validity and permissions
  - Vault file presence and permissions
  - Configured cipher availability
  - Change journal readability

With --deep it also unlocks the vault and lists records that cannot be
decrypted.

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")
	ctx := context.Background()

	var report *workflows.LoadReport
	if doctorDeep {
		session, err := unlockSession(ctx)
		if err != nil {
			return fail(err)
		}
		report, err = session.Doctor(ctx)
		session.Close()
		if err != nil {
			return fail(err)
		}
	}

	spinner, cleanup := startSpinner("Running health checks...")
	defer cleanup()

	result, err := workflows.Doctor(ctx, workflows.DoctorOptions{Settings: Settings})
	if err != nil {
		return failWith(spinner, err)
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status.String(), check.Message)
	}

	if report != nil {
		result.AddCheck(loadCheck(report))
	}

	spinner.FinalMSG = ""
	if doctorJSONOutput {
		if err := outputDoctorJSON(result); err != nil {
			return err
		}
	} else {
		printDoctorResults(result)
		if result.Summary.Errors > 0 {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Health checks completed with errors"
		} else if result.Summary.Warnings > 0 {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Health checks completed with warnings"
		} else {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Health checks completed"
		}
	}

	// Set exit code based on results.
	if result.Summary.Errors > 0 {
		doctorExitFunc(2)
	} else if result.Summary.Warnings > 0 {
		doctorExitFunc(1)
	}
	return nil
}

// loadCheck turns a deep load report into a check result.
func loadCheck(report *workflows.LoadReport) workflows.CheckResult {
	if len(report.Skipped) == 0 {
		return workflows.CheckResult{
			Name:    "Records",
			Status:  workflows.CheckPass,
			Message: fmt.Sprintf("All %d records decrypt", report.Readable),
		}
	}

	lines := make([]int, 0, len(report.Skipped))
	for _, s := range report.Skipped {
		lines = append(lines, s.Line)
	}
	return workflows.CheckResult{
		Name:       "Records",
		Status:     workflows.CheckWarning,
		Message:    fmt.Sprintf("%d records decrypt, unreadable lines: %v", report.Readable, lines),
		Suggestion: "Unreadable lines are dropped the next time a credential is removed or edited",
	}
}

// outputDoctorJSON outputs the result as JSON.
func outputDoctorJSON(result *workflows.DoctorResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// printDoctorResults prints the doctor results in a human-readable format.
func printDoctorResults(result *workflows.DoctorResult) {
	fmt.Println("Running health checks...")
	fmt.Println()

	for _, check := range result.Checks {
		var statusIcon string
		switch check.Status {
		case workflows.CheckPass:
			statusIcon = ui.Success.Sprint("✓")
		case workflows.CheckWarning:
			statusIcon = ui.Warning.Sprint("⚠")
		case workflows.CheckError:
			statusIcon = ui.Error.Sprint("✗")
		}
		fmt.Printf("%s %s\n", statusIcon, check.Message)
	}

	fmt.Println()
	fmt.Println(ui.Info.Sprint("Files:"))
	for _, a := range result.Artifacts {
		if a.Exists {
			fmt.Printf("  %-14s %s %s\n", a.Name, ui.Path.Sprint(a.Path), ui.Muted.Sprintf("%d bytes", a.Size))
		} else {
			fmt.Printf("  %-14s %s %s\n", a.Name, ui.Path.Sprint(a.Path), ui.Muted.Sprint("missing"))
		}
	}

	fmt.Println()
	fmt.Printf("Summary: %d passed", result.Summary.Passed)
	if result.Summary.Warnings > 0 {
		fmt.Printf(", %s", ui.Warning.Sprint(fmt.Sprintf("%d warning(s)", result.Summary.Warnings)))
	}
	if result.Summary.Errors > 0 {
		fmt.Printf(", %s", ui.Error.Sprint(fmt.Sprintf("%d error(s)", result.Summary.Errors)))
	}
	fmt.Println()

	if len(result.Suggestions) > 0 {
		fmt.Println()
		fmt.Println("Suggestions:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  %s %s\n", ui.Info.Sprint("→"), suggestion)
		}
	}
}
