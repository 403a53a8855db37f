package errors

import "errors"

// Storage and crypto category sentinels. A *Fault unwraps to exactly one of these.
var (
	// ErrKeyMaterial indicates the key artifact is absent, truncated or structurally invalid.
	ErrKeyMaterial = errors.New("key material is missing or corrupt")

	// ErrCipher indicates an encryption or decryption primitive rejected the operation.
	ErrCipher = errors.New("cipher operation failed")

	// ErrCodec indicates a serialized record is malformed.
	ErrCodec = errors.New("malformed record")

	// ErrGate indicates the master digest artifact could not be read or written.
	ErrGate = errors.New("master digest unavailable")

	// ErrStore indicates the record log could not be read or written.
	ErrStore = errors.New("record log unavailable")
)

// Cipher configuration errors.
var (
	// ErrUnknownCipher indicates the configured cipher strategy is not registered.
	ErrUnknownCipher = errors.New("unknown cipher strategy")

	// ErrInvalidKeyLength indicates the symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrCiphertextTooShort indicates the ciphertext cannot even hold a nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")

	// ErrAuthenticationFailed indicates the authentication tag did not verify.
	ErrAuthenticationFailed = errors.New("message authentication failed")
)

// Gate errors indicate issues with the master passphrase.
var (
	// ErrGateNotProvisioned indicates no master passphrase has been set yet.
	ErrGateNotProvisioned = errors.New("master passphrase has not been set")

	// ErrPassphraseMismatch indicates the supplied passphrase does not match the stored digest.
	ErrPassphraseMismatch = errors.New("master passphrase is incorrect")

	// ErrPassphraseTooShort indicates a new passphrase is below the configured minimum length.
	ErrPassphraseTooShort = errors.New("master passphrase is too short")

	// ErrPassphraseConfirmation indicates the confirmation entry differs from the first entry.
	ErrPassphraseConfirmation = errors.New("passphrases do not match")

	// ErrTooManyAttempts indicates the caller exhausted its unlock attempts.
	ErrTooManyAttempts = errors.New("too many failed unlock attempts")
)

// Vault state errors indicate issues with initialization or configuration.
var (
	// ErrVaultNotInitialized indicates the vault has not been set up.
	ErrVaultNotInitialized = errors.New("vault has not been initialized")

	// ErrVaultAlreadyInitialized indicates the vault has already been set up.
	ErrVaultAlreadyInitialized = errors.New("vault has already been initialized")

	// ErrInvalidConfig indicates the configuration file is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")
)

// Input and record errors.
var (
	// ErrInvalidDateFormat indicates a date filter is not in YYYY-MM-DD form.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidInput indicates user input was empty or contained forbidden characters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRecordNotFound indicates no record matched.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoRecords indicates the vault is empty.
	ErrNoRecords = errors.New("vault is empty")

	// ErrExportTargetIsVault indicates an export destination that would overwrite the record log.
	ErrExportTargetIsVault = errors.New("export destination is the vault file")
)
