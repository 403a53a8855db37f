package gate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "master.digest"), DefaultMinLength)
}

func TestSetPassphraseAndVerify(t *testing.T) {
	g := newTestGate(t)

	if err := g.SetPassphrase("correct horse"); err != nil {
		t.Fatalf("SetPassphrase failed: %v", err)
	}

	ok, err := g.Verify("correct horse")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("expected the correct passphrase to verify")
	}

	ok, err = g.Verify("wrong horse")
	if err != nil {
		t.Fatalf("Verify with wrong passphrase returned an error: %v", err)
	}
	if ok {
		t.Error("expected the wrong passphrase to be rejected")
	}
}

func TestSetPassphrase_ArtifactFormat(t *testing.T) {
	g := newTestGate(t)
	if err := g.SetPassphrase("correct horse"); err != nil {
		t.Fatalf("SetPassphrase failed: %v", err)
	}

	data, err := os.ReadFile(g.Path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	line := strings.TrimSuffix(string(data), "\n")
	if len(line) != DigestLength {
		t.Errorf("expected %d characters, got %d", DigestLength, len(line))
	}
	if strings.Contains(line, "correct horse") {
		t.Error("artifact contains the raw passphrase")
	}

	info, err := os.Stat(g.Path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
	}
}

func TestSetPassphrase_SaltedDigestsDiffer(t *testing.T) {
	a := newTestGate(t)
	b := newTestGate(t)
	if err := a.SetPassphrase("same passphrase"); err != nil {
		t.Fatalf("SetPassphrase failed: %v", err)
	}
	if err := b.SetPassphrase("same passphrase"); err != nil {
		t.Fatalf("SetPassphrase failed: %v", err)
	}

	da, _ := os.ReadFile(a.Path)
	db, _ := os.ReadFile(b.Path)
	if string(da) == string(db) {
		t.Error("identical passphrases produced identical artifacts")
	}
}

func TestSetPassphrase_TooShort(t *testing.T) {
	g := newTestGate(t)

	err := g.SetPassphrase("short")
	if !errors.Is(err, kerrors.ErrPassphraseTooShort) {
		t.Fatalf("expected ErrPassphraseTooShort, got %v", err)
	}
	if _, statErr := os.Stat(g.Path); !os.IsNotExist(statErr) {
		t.Error("a rejected passphrase still wrote an artifact")
	}
}

func TestVerify_NotProvisioned(t *testing.T) {
	g := newTestGate(t)

	ok, err := g.Verify("anything at all")
	if ok {
		t.Error("unprovisioned gate accepted a passphrase")
	}
	if !errors.Is(err, kerrors.ErrGate) || !errors.Is(err, kerrors.ErrGateNotProvisioned) {
		t.Fatalf("expected a not-provisioned gate fault, got %v", err)
	}

	if _, statErr := os.Stat(g.Path); !os.IsNotExist(statErr) {
		t.Error("Verify provisioned the gate")
	}
}

func TestVerify_MalformedArtifact(t *testing.T) {
	g := newTestGate(t)
	if err := os.WriteFile(g.Path, []byte("5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := g.Verify("password")
	if !errors.Is(err, kerrors.ErrGate) {
		t.Fatalf("expected ErrGate, got %v", err)
	}
}

func TestProvisioned(t *testing.T) {
	g := newTestGate(t)

	ok, err := g.Provisioned()
	if err != nil || ok {
		t.Fatalf("expected unprovisioned gate, got %v, %v", ok, err)
	}

	if err := g.SetPassphrase("correct horse"); err != nil {
		t.Fatalf("SetPassphrase failed: %v", err)
	}

	ok, err = g.Provisioned()
	if err != nil || !ok {
		t.Fatalf("expected provisioned gate, got %v, %v", ok, err)
	}
}

func TestChange(t *testing.T) {
	g := newTestGate(t)
	if err := g.SetPassphrase("first passphrase"); err != nil {
		t.Fatalf("SetPassphrase failed: %v", err)
	}

	if err := g.Change("not the passphrase", "second passphrase"); !errors.Is(err, kerrors.ErrPassphraseMismatch) {
		t.Fatalf("expected ErrPassphraseMismatch, got %v", err)
	}

	if err := g.Change("first passphrase", "second passphrase"); err != nil {
		t.Fatalf("Change failed: %v", err)
	}

	if ok, _ := g.Verify("first passphrase"); ok {
		t.Error("old passphrase still verifies after change")
	}
	if ok, _ := g.Verify("second passphrase"); !ok {
		t.Error("new passphrase does not verify after change")
	}
}

func TestCheck(t *testing.T) {
	g := newTestGate(t)

	if err := g.Check(); !errors.Is(err, kerrors.ErrGateNotProvisioned) {
		t.Errorf("expected ErrGateNotProvisioned, got %v", err)
	}

	if err := g.SetPassphrase("correct horse"); err != nil {
		t.Fatalf("SetPassphrase failed: %v", err)
	}
	if err := g.Check(); err != nil {
		t.Errorf("expected a valid artifact, got %v", err)
	}

	if err := os.WriteFile(g.Path, []byte("abc\n"), 0600); err != nil {
		t.Fatalf("failed to corrupt artifact: %v", err)
	}
	if err := g.Check(); !errors.Is(err, kerrors.ErrGate) {
		t.Errorf("expected ErrGate, got %v", err)
	}
}
