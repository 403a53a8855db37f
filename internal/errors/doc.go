// Package errors provides typed error values for the SecureVault application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Key material errors: the key artifact is missing or corrupt (ErrKeyMaterial)
//   - Cipher errors: encryption or authentication failures (ErrCipher, ErrUnknownCipher)
//   - Codec errors: a decrypted line is not a valid record (ErrCodec)
//   - Gate errors: the master digest cannot be read or written (ErrGate, ErrGateNotProvisioned)
//   - Store errors: the record log cannot be read or written (ErrStore)
//   - Session errors: wrong passphrase, uninitialized vault, invalid input
//
// # Faults
//
// The five storage and crypto categories are reported as a *Fault, which
// carries the category, the failing operation and the underlying cause.
// Both the category sentinel and the cause are reachable through errors.Is:
//
//	_, err := keys.Load(path)
//	errors.Is(err, kerrors.ErrKeyMaterial) // true
//	errors.Is(err, os.ErrNotExist)         // true when the file is absent
//
// # Shielding
//
// Fault text contains file paths and primitive diagnostics. It is meant for
// the operator log only. The CLI layer shows UserMessage(err) instead:
//
//	if err != nil {
//	    fmt.Println(kerrors.UserMessage(err))
//	}
package errors
