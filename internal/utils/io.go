package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadSecretFromStdin reads a piped secret. A single trailing newline is
// removed; all other bytes are kept.
// Returns an error if stdin is a terminal (no piped data) or empty.
func ReadSecretFromStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("no data provided on stdin (hint: pipe the secret to this command)")
	}

	return readSecret(os.Stdin)
}

func readSecret(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}

	secret := strings.TrimSuffix(string(data), "\n")
	secret = strings.TrimSuffix(secret, "\r")
	if secret == "" {
		return "", fmt.Errorf("stdin is empty")
	}
	return secret, nil
}
