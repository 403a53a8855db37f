// Package configs resolves SecureVault settings.
//
// Settings are resolved in increasing order of precedence:
//
//  1. Built-in defaults. The data directory is $XDG_DATA_HOME/securevault,
//     falling back to ~/.local/share/securevault.
//  2. The TOML file config.toml in the data directory (or the file named
//     with --config).
//  3. Environment variables SECUREVAULT_HOME and SECUREVAULT_CIPHER.
//  4. Command-line flags --home and --cipher.
//
// # Config File
//
// The config file is optional. A missing file is the same as an empty one;
// a malformed file is an error. Relative artifact names are resolved
// against the data directory:
//
//	[vault]
//	cipher = "aes-256-gcm"
//	vault_file = "vault.enc"
//	key_file = "vault.key"
//	master_file = "master.hash"
//
//	[security]
//	min_passphrase_length = 8
//	max_attempts = 5
//	reveal_delay = "5s"
//
//	[logging]
//	audit = true
//	audit_file = "audit.jsonl"
//	operator_log = "securevault.log"
//	notify = true
//
// Use Save to write the effective settings back as a config file.
package configs
