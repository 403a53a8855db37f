// Package workflows provides high-level orchestration for SecureVault commands.
//
// Workflows coordinate multiple operations across packages (configs, gate,
// keys, cipher, vault, repository, audit) to implement complete user-facing
// features. Each workflow handles a single command's business logic,
// independent of CLI concerns like flag parsing, prompts, spinners, and
// output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Reads passphrases and other interactive input
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Validating prerequisites and input
//   - Performing the core operation
//   - Recording change journal entries
//
// # Available Workflows
//
//   - Init: Provisions the master passphrase, key and empty vault
//   - Unlock: Verifies the passphrase and opens a Session
//   - Doctor: Checks the vault artifacts without a passphrase
//   - ReadLog: Reads and filters the change journal
//
// A Session carries the unlocked vault for the record operations: Add,
// Remove, Modify, Records, Search, Export, ChangePassphrase and Doctor.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	session, err := workflows.Unlock(ctx, opts)
//	if errors.Is(err, kerrors.ErrPassphraseMismatch) {
//	    // Prompt again
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// This enables cancellation, timeouts, and passing request-scoped values.
package workflows
