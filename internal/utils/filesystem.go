package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// FileStatus describes one artifact on disk.
type FileStatus struct {
	Path   string
	Exists bool
	Size   int64
	Mode   fs.FileMode
}

// StatFile reports on path. A missing file is not an error.
func StatFile(path string) (FileStatus, error) {
	status := FileStatus{Path: path}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("error checking %s: %w", path, err)
	}
	if info.IsDir() {
		return status, fmt.Errorf("%s is a directory", path)
	}

	status.Exists = true
	status.Size = info.Size()
	status.Mode = info.Mode().Perm()
	return status, nil
}

// GroupOrOtherAccessible reports whether anyone but the owner can access
// the file.
func (s FileStatus) GroupOrOtherAccessible() bool {
	return s.Exists && s.Mode&0077 != 0
}
