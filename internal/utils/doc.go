// Package utils provides shared utility functions for the SecureVault CLI.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Input Utilities
//
// Functions for validating what the user types:
//   - SanitizeInput: trims and rejects shell metacharacters in labels
//   - ValidateFileName: rejects unsafe export destinations
//
// Secrets are never passed through SanitizeInput; they are stored exactly
// as typed.
//
// # Filesystem Utilities
//
// Functions for locating and inspecting vault artifacts:
//   - ExpandHome: resolves a leading ~ to the user's home directory
//   - StatFile: reports presence, size and permissions of a file
//   - FormatPaths: formats file paths for human-readable output
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//
// # I/O Utilities
//
// Functions for reading from stdin and other I/O operations:
//   - ReadSecretFromStdin: reads a piped secret
//
// # Terminal Utilities
//
// Functions for terminal detection and interaction:
//   - ReadPassphrase: reads hidden input
//   - ClearScreen: wipes revealed secrets from the terminal
package utils
