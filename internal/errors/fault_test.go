package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestFault_IsMatchesSentinelAndCause(t *testing.T) {
	err := KeyMaterialFault("load key", os.ErrNotExist)

	if !errors.Is(err, ErrKeyMaterial) {
		t.Errorf("expected errors.Is(err, ErrKeyMaterial)")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected errors.Is(err, os.ErrNotExist)")
	}
	if errors.Is(err, ErrCipher) {
		t.Errorf("key material fault should not match ErrCipher")
	}
}

func TestFault_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("opening vault: %w", StoreFault("append", os.ErrPermission))

	if KindOf(err) != KindStore {
		t.Errorf("expected KindStore, got %v", KindOf(err))
	}
	if !errors.Is(err, ErrStore) {
		t.Errorf("expected wrapped fault to match ErrStore")
	}
}

func TestFault_ErrorText(t *testing.T) {
	err := CipherFault("decrypt", ErrAuthenticationFailed)
	got := err.Error()

	for _, want := range []string{"CipherFault", "decrypt", ErrCipher.Error(), ErrAuthenticationFailed.Error()} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestUserMessage_NeverLeaksCause(t *testing.T) {
	cause := errors.New("open /home/alice/.local/share/securevault/vault.dat: permission denied")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"store", StoreFault("load", cause), "The vault file could not be accessed."},
		{"key", KeyMaterialFault("load", cause), "The encryption key could not be loaded."},
		{"cipher", CipherFault("decrypt", cause), "A cryptographic operation failed."},
		{"codec", CodecFault("decode", cause), "A stored record is malformed."},
		{"gate", GateFault("verify", cause), "The master password file could not be accessed."},
		{"unknown", cause, genericMessage},
		{"mismatch", fmt.Errorf("unlock: %w", ErrPassphraseMismatch), "The master password is incorrect."},
		{"not provisioned", GateFault("verify", ErrGateNotProvisioned), "The vault has not been initialized."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "/home/alice") {
				t.Errorf("user message leaked a path: %q", got)
			}
		})
	}
}

func TestUserMessage_Nil(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("expected empty message for nil error, got %q", got)
	}
}
