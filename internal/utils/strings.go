package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/ui"
)

// forbiddenChars may not appear in service names, usernames or categories.
const forbiddenChars = `;|&"<>`

// SanitizeInput trims s and rejects empty values and values containing any
// of ; | & " < >. It must not be applied to secrets.
func SanitizeInput(s string) (string, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return "", fmt.Errorf("%w: value is empty", kerrors.ErrInvalidInput)
	}
	if i := strings.IndexAny(cleaned, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("%w: character %q is not allowed", kerrors.ErrInvalidInput, cleaned[i])
	}
	return cleaned, nil
}

// ValidateFileName checks an export destination. The name must be
// non-empty and its final element must be a plain file name.
func ValidateFileName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: file name is empty", kerrors.ErrInvalidInput)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: file name contains a NUL byte", kerrors.ErrInvalidInput)
	}
	if strings.ContainsAny(name, forbiddenChars) {
		return fmt.Errorf("%w: file name contains a forbidden character", kerrors.ErrInvalidInput)
	}

	if strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator)) {
		return fmt.Errorf("%w: %q names a directory", kerrors.ErrInvalidInput, name)
	}

	base := filepath.Base(filepath.Clean(name))
	switch base {
	case ".", "..", string(filepath.Separator):
		return fmt.Errorf("%w: %q is not a file name", kerrors.ErrInvalidInput, name)
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return fmt.Errorf("%w: file name may not contain '..'", kerrors.ErrInvalidInput)
		}
	}
	return nil
}

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// MaskSecret returns a fixed-width placeholder for s.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
