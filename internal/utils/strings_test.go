package utils

import (
	"errors"
	"os"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"Plain", "Gmail", "Gmail", false},
		{"TrimsWhitespace", "  alice@example.com \t", "alice@example.com", false},
		{"KeepsInnerSpaces", "My Bank", "My Bank", false},
		{"KeepsComma", "Slack, Inc", "Slack, Inc", false},
		{"Empty", "", "", true},
		{"OnlySpaces", "   ", "", true},
		{"Semicolon", "a;b", "", true},
		{"Pipe", "a|b", "", true},
		{"Ampersand", "a&b", "", true},
		{"Quote", `a"b`, "", true},
		{"LessThan", "<script>", "", true},
		{"GreaterThan", "a>b", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := SanitizeInput(tc.input)
			if tc.wantErr {
				if !errors.Is(err, kerrors.ErrInvalidInput) {
					t.Errorf("SanitizeInput(%q) error = %v, expected ErrInvalidInput", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeInput(%q) unexpected error: %v", tc.input, err)
			}
			if result != tc.expected {
				t.Errorf("SanitizeInput(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestValidateFileName(t *testing.T) {
	valid := []string{"export.csv", "out/export.csv", "/tmp/export.csv", "./export.csv"}
	for _, name := range valid {
		if err := ValidateFileName(name); err != nil {
			t.Errorf("ValidateFileName(%q) unexpected error: %v", name, err)
		}
	}

	invalid := []string{"", "  ", ".", "..", "../export.csv", "a/../../b.csv", "out/", "a;rm.csv", "a\x00b"}
	for _, name := range invalid {
		if err := ValidateFileName(name); !errors.Is(err, kerrors.ErrInvalidInput) {
			t.Errorf("ValidateFileName(%q) error = %v, expected ErrInvalidInput", name, err)
		}
	}
}

func TestFormatPaths(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	got := FormatPaths([]string{"a.csv", "b.csv"})
	if !strings.Contains(got, "    - a.csv\n") || !strings.Contains(got, "    - b.csv\n") {
		t.Errorf("Unexpected formatting: %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	if MaskSecret("") != "" {
		t.Errorf("Expected empty mask for empty secret")
	}
	if got := MaskSecret("hunter2"); strings.Contains(got, "hunter2") {
		t.Errorf("Mask leaked secret: %q", got)
	}
}
