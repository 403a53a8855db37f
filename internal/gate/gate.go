// Package gate guards the vault with a master passphrase.
//
// The passphrase is never stored. The gate keeps a salted PBKDF2-HMAC-SHA256
// digest in its own artifact, a single line of 96 hex characters:
//
//	hex(salt[16]) || hex(digest[32])
//
// The digest is unrelated to the record key, so learning one secret reveals
// nothing about the other.
//
// A vault must be provisioned explicitly with SetPassphrase before Verify can
// succeed. Verify never provisions on its own. Limiting the number of attempts
// is left to the caller.
package gate

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/natefinch/atomic"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	digestSize = 32
	iterations = 210_000

	// DigestLength is the length of the artifact line in characters.
	DigestLength = 2 * (saltSize + digestSize)

	// DefaultMinLength is the minimum passphrase length in characters.
	DefaultMinLength = 8
)

// Gate verifies passphrases against the digest stored at Path.
type Gate struct {
	Path      string
	MinLength int
}

// New returns a gate for the digest artifact at path.
func New(path string, minLength int) *Gate {
	return &Gate{Path: path, MinLength: minLength}
}

// Provisioned reports whether a digest artifact exists.
func (g *Gate) Provisioned() (bool, error) {
	_, err := os.Stat(g.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, kerrors.GateFault("stat digest", err)
}

// SetPassphrase replaces the stored digest with one for raw.
func (g *Gate) SetPassphrase(raw string) error {
	if utf8.RuneCountInString(raw) < g.MinLength {
		return fmt.Errorf("%w: minimum is %d characters", kerrors.ErrPassphraseTooShort, g.MinLength)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return kerrors.GateFault("generate salt", err)
	}

	line := hex.EncodeToString(salt) + hex.EncodeToString(derive(raw, salt)) + "\n"

	if err := os.MkdirAll(filepath.Dir(g.Path), 0700); err != nil {
		return kerrors.GateFault("write digest", err)
	}
	if err := atomic.WriteFile(g.Path, bytes.NewReader([]byte(line))); err != nil {
		return kerrors.GateFault("write digest", err)
	}
	if err := os.Chmod(g.Path, 0600); err != nil {
		return kerrors.GateFault("write digest", err)
	}
	return nil
}

// Verify reports whether raw matches the stored digest. A mismatch is
// (false, nil); only an unreadable, missing or malformed artifact is an error.
func (g *Gate) Verify(raw string) (bool, error) {
	data, err := os.ReadFile(g.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, kerrors.GateFault("verify", fmt.Errorf("%w: %w", kerrors.ErrGateNotProvisioned, err))
		}
		return false, kerrors.GateFault("verify", err)
	}

	salt, want, err := parse(strings.TrimSpace(string(data)))
	if err != nil {
		return false, kerrors.GateFault("verify", err)
	}

	return subtle.ConstantTimeCompare(derive(raw, salt), want) == 1, nil
}

// Check validates the stored artifact without verifying a passphrase.
func (g *Gate) Check() error {
	data, err := os.ReadFile(g.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return kerrors.GateFault("check", fmt.Errorf("%w: %w", kerrors.ErrGateNotProvisioned, err))
		}
		return kerrors.GateFault("check", err)
	}
	if _, _, err := parse(strings.TrimSpace(string(data))); err != nil {
		return kerrors.GateFault("check", err)
	}
	return nil
}

// Change replaces the passphrase after checking the current one.
func (g *Gate) Change(current, next string) error {
	ok, err := g.Verify(current)
	if err != nil {
		return err
	}
	if !ok {
		return kerrors.ErrPassphraseMismatch
	}
	return g.SetPassphrase(next)
}

func derive(raw string, salt []byte) []byte {
	return pbkdf2.Key([]byte(raw), salt, iterations, digestSize, sha256.New)
}

func parse(line string) (salt, digest []byte, err error) {
	if len(line) != DigestLength {
		return nil, nil, fmt.Errorf("malformed digest: expected %d characters, got %d", DigestLength, len(line))
	}
	raw, err := hex.DecodeString(line)
	if err != nil {
		return nil, nil, fmt.Errorf("malformed digest: %w", err)
	}
	return raw[:saltSize], raw[saltSize:], nil
}
