package utils

import (
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

func scripted(answers ...string) func(string) ([]byte, error) {
	return func(string) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestReadNewPassphrase(t *testing.T) {
	got, err := ReadNewPassphrase(scripted("correct horse", "correct horse"), "Passphrase: ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(got) != "correct horse" {
		t.Errorf("Expected %q, got %q", "correct horse", got)
	}

	if _, err := ReadNewPassphrase(scripted("one", "two"), "Passphrase: "); !errors.Is(err, kerrors.ErrPassphraseConfirmation) {
		t.Errorf("Expected ErrPassphraseConfirmation, got %v", err)
	}

	if _, err := ReadNewPassphrase(scripted("only-one"), "Passphrase: "); err == nil {
		t.Error("Expected read error to propagate")
	}
}
