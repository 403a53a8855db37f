// Package keys manages the lifecycle of the vault's symmetric record key:
// generation, the on-disk key artifact, and a text form for diagnostics.
//
// The key artifact is a PEM block of type "SECUREVAULT SYMMETRIC KEY"
// holding the raw 32 bytes. It lives next to, never inside, the record log
// and is written with 0600 permissions. The key is random and is not derived
// from the master passphrase.
package keys

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/natefinch/atomic"
)

// Size is the key length in bytes (256 bits).
const Size = 32

const pemType = "SECUREVAULT SYMMETRIC KEY"

// Key is the symmetric record key.
type Key [Size]byte

// Bytes returns a copy of the key material.
func (k Key) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, k[:])
	return b
}

// String never prints key material.
func (k Key) String() string { return "keys.Key(redacted)" }

// Generate returns a new random key.
func Generate() (Key, error) {
	var k Key
	if _, err := io.ReadFull(rand.Reader, k[:]); err != nil {
		return Key{}, kerrors.KeyMaterialFault("generate key", err)
	}
	return k, nil
}

// FromBytes validates b and copies it into a Key.
func FromBytes(b []byte) (Key, error) {
	if len(b) != Size {
		return Key{}, kerrors.KeyMaterialFault("decode key",
			fmt.Errorf("%w: expected %d bytes, got %d", kerrors.ErrInvalidKeyLength, Size, len(b)))
	}
	var k Key
	copy(k[:], b)
	return k, nil
}

// Save writes key to path, replacing any previous artifact atomically.
func Save(key Key, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return kerrors.KeyMaterialFault("save key", fmt.Errorf("creating key directory: %w", err))
	}

	data := pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: key[:]})
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return kerrors.KeyMaterialFault("save key", fmt.Errorf("writing %s: %w", path, err))
	}

	if err := os.Chmod(path, 0600); err != nil {
		return kerrors.KeyMaterialFault("save key", fmt.Errorf("restricting permissions on %s: %w", path, err))
	}

	return nil
}

// Load reads the key artifact at path. Absent, truncated or malformed
// artifacts are reported as ErrKeyMaterial faults.
func Load(path string) (Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Key{}, kerrors.KeyMaterialFault("load key", err)
	}

	block, rest := pem.Decode(data)
	if block == nil {
		return Key{}, kerrors.KeyMaterialFault("load key", fmt.Errorf("%s does not contain a PEM block", path))
	}
	if block.Type != pemType {
		return Key{}, kerrors.KeyMaterialFault("load key", fmt.Errorf("unexpected PEM block type %q", block.Type))
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return Key{}, kerrors.KeyMaterialFault("load key", fmt.Errorf("trailing data after key block"))
	}

	return FromBytes(block.Bytes)
}

// LoadOrGenerate loads the key at path, or generates and saves a new one if
// no artifact exists. The boolean reports whether a key was created. A
// corrupt artifact is an error, never silently replaced.
func LoadOrGenerate(path string) (Key, bool, error) {
	key, err := Load(path)
	if err == nil {
		return key, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Key{}, false, err
	}

	key, err = Generate()
	if err != nil {
		return Key{}, false, err
	}
	if err := Save(key, path); err != nil {
		return Key{}, false, err
	}
	return key, true, nil
}

// EncodeForDisplay renders key as standard base64. For diagnostics and
// manual backup only.
func EncodeForDisplay(key Key) string {
	return base64.StdEncoding.EncodeToString(key[:])
}

// DecodeFromDisplay parses the output of EncodeForDisplay.
func DecodeFromDisplay(text string) (Key, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return Key{}, kerrors.KeyMaterialFault("decode key", err)
	}
	return FromBytes(b)
}

// Fingerprint returns a short non-reversible identifier for key, safe to show.
func Fingerprint(key Key) string {
	sum := sha256.Sum256(key[:])
	return hex.EncodeToString(sum[:8])
}
