package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/cipher"
	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/gate"
	"github.com/PolarWolf314/securevault/internal/keys"
	"github.com/PolarWolf314/securevault/internal/utils"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Artifact is one vault file as seen on disk.
type Artifact struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Size   int64  `json:"size"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Artifacts   []Artifact    `json:"artifacts"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	Settings *configs.Settings
}

// Doctor runs health checks on the vault artifacts. It needs no
// passphrase and never decrypts records.
//
// The doctor workflow checks:
//   - Config file validity
//   - Master passphrase digest presence and format
//   - Record key validity and permissions
//   - Vault file presence and permissions
//   - Configured cipher availability
//   - Change journal readability
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	s := opts.Settings

	checks := []func(*configs.Settings) CheckResult{
		checkConfigFile,
		checkMasterDigest,
		checkRecordKey,
		checkKeyPermissions,
		checkVaultFile,
		checkCipher,
		checkJournal,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check(s))
	}

	var artifacts []Artifact
	for _, a := range []struct{ name, path string }{
		{"config", s.ConfigFile},
		{"master digest", s.MasterFile},
		{"record key", s.KeyFile},
		{"vault", s.VaultFile},
		{"journal", s.AuditFile},
		{"operator log", s.OperatorLogFile},
	} {
		status, _ := utils.StatFile(a.path)
		artifacts = append(artifacts, Artifact{Name: a.name, Path: a.path, Exists: status.Exists, Size: status.Size})
	}

	// Collect suggestions (deduplicated).
	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Artifacts:   artifacts,
		Summary:     calculateDoctorSummary(results),
		Suggestions: suggestions,
	}, nil
}

// checkConfigFile checks that the config file, if any, parses.
func checkConfigFile(s *configs.Settings) CheckResult {
	status, err := utils.StatFile(s.ConfigFile)
	if err != nil {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckError,
			Message:    fmt.Sprintf("Cannot read config file: %v", err),
			Suggestion: "Check that the config file is accessible",
		}
	}
	if !status.Exists {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckWarning,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'securevault config init' to write a config file",
		}
	}

	_, undecoded, err := configs.LoadFileConfig(s.ConfigFile)
	if err != nil {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckError,
			Message:    "Config file is not valid TOML",
			Suggestion: "Check the config.toml file for syntax errors",
		}
	}
	if len(undecoded) > 0 {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Config file has unknown keys: %v", undecoded),
			Suggestion: "Remove or correct the unknown keys in config.toml",
		}
	}

	return CheckResult{Name: "Configuration", Status: CheckPass, Message: "Config file is valid"}
}

// checkMasterDigest checks that the passphrase digest exists and is well formed.
func checkMasterDigest(s *configs.Settings) CheckResult {
	err := gate.New(s.MasterFile, s.MinPassphraseLength).Check()
	switch {
	case err == nil:
		return CheckResult{Name: "Master passphrase", Status: CheckPass, Message: "Passphrase digest is present"}
	case errors.Is(err, kerrors.ErrGateNotProvisioned):
		return CheckResult{
			Name:       "Master passphrase",
			Status:     CheckError,
			Message:    "Vault has not been initialized",
			Suggestion: "Run 'securevault init' to create the vault",
		}
	default:
		return CheckResult{
			Name:       "Master passphrase",
			Status:     CheckError,
			Message:    "Passphrase digest is unreadable or malformed",
			Suggestion: "Restore master.hash from a backup",
		}
	}
}

// checkRecordKey checks that the key artifact loads.
func checkRecordKey(s *configs.Settings) CheckResult {
	key, err := keys.Load(s.KeyFile)
	if err != nil {
		return CheckResult{
			Name:       "Record key",
			Status:     CheckError,
			Message:    "Record key is missing or corrupt",
			Suggestion: "Restore vault.key from a backup; records cannot be read without it",
		}
	}

	return CheckResult{
		Name:    "Record key",
		Status:  CheckPass,
		Message: fmt.Sprintf("Record key is valid (fingerprint %s)", keys.Fingerprint(key)),
	}
}

// checkKeyPermissions checks that only the owner can access the key.
func checkKeyPermissions(s *configs.Settings) CheckResult {
	status, err := utils.StatFile(s.KeyFile)
	if err != nil || !status.Exists {
		return CheckResult{Name: "Record key permissions", Status: CheckWarning, Message: "Record key not found"}
	}

	if status.GroupOrOtherAccessible() {
		return CheckResult{
			Name:       "Record key permissions",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Record key is accessible to other users (mode %04o)", status.Mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", s.KeyFile),
		}
	}

	return CheckResult{Name: "Record key permissions", Status: CheckPass, Message: "Record key has secure permissions (0600)"}
}

// checkVaultFile checks the record log.
func checkVaultFile(s *configs.Settings) CheckResult {
	status, err := utils.StatFile(s.VaultFile)
	if err != nil {
		return CheckResult{
			Name:       "Vault file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Cannot read vault file: %v", err),
			Suggestion: "Check that the vault file is accessible",
		}
	}
	if !status.Exists {
		return CheckResult{
			Name:       "Vault file",
			Status:     CheckWarning,
			Message:    "Vault file does not exist yet",
			Suggestion: "Run 'securevault init' or add a credential to create it",
		}
	}
	if status.GroupOrOtherAccessible() {
		return CheckResult{
			Name:       "Vault file",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Vault file is accessible to other users (mode %04o)", status.Mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", s.VaultFile),
		}
	}

	return CheckResult{Name: "Vault file", Status: CheckPass, Message: fmt.Sprintf("Vault file is present (%d bytes)", status.Size)}
}

// checkCipher checks that the configured strategy is registered.
func checkCipher(s *configs.Settings) CheckResult {
	strategy, err := cipher.New(s.Cipher, keys.Key{})
	if err != nil {
		return CheckResult{
			Name:       "Cipher",
			Status:     CheckError,
			Message:    fmt.Sprintf("Cipher %q is not supported", s.Cipher),
			Suggestion: "Run 'securevault ciphers' to list supported ciphers",
		}
	}
	if strategy.Name() == cipher.AlgorithmReverse {
		return CheckResult{
			Name:       "Cipher",
			Status:     CheckWarning,
			Message:    "Cipher 'reverse' does not encrypt",
			Suggestion: "Use an authenticated cipher such as " + cipher.Default,
		}
	}

	return CheckResult{Name: "Cipher", Status: CheckPass, Message: fmt.Sprintf("Using %s", strategy.Name())}
}

// checkJournal checks that the change journal can be parsed.
func checkJournal(s *configs.Settings) CheckResult {
	if !s.Audit {
		return CheckResult{Name: "Change journal", Status: CheckPass, Message: "Change journal is disabled"}
	}

	entries, err := audit.ReadEntries(s.AuditFile)
	if err != nil {
		return CheckResult{
			Name:       "Change journal",
			Status:     CheckWarning,
			Message:    "Change journal is unreadable",
			Suggestion: "Check that the journal file is accessible",
		}
	}

	return CheckResult{Name: "Change journal", Status: CheckPass, Message: fmt.Sprintf("%d journal entries", len(entries))}
}

// AddCheck appends c to the result and updates the summary and suggestions.
func (r *DoctorResult) AddCheck(c CheckResult) {
	r.Checks = append(r.Checks, c)
	r.Summary = calculateDoctorSummary(r.Checks)
	if c.Suggestion == "" || c.Status == CheckPass {
		return
	}
	for _, s := range r.Suggestions {
		if s == c.Suggestion {
			return
		}
	}
	r.Suggestions = append(r.Suggestions, c.Suggestion)
}

func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, r := range results {
		switch r.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
