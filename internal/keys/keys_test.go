package keys

import (
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

func TestGenerate_ProducesDistinctKeys(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if a == b {
		t.Error("two generated keys are identical")
	}
	if a == (Key{}) {
		t.Error("generated key is all zeros")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vault.key")

	key, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := Save(key, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != key {
		t.Error("loaded key differs from saved key")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
	}
}

func TestSave_OverwritesPreviousKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.key")

	first, _ := Generate()
	second, _ := Generate()
	if err := Save(first, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(second, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != second {
		t.Error("expected the second key after overwrite")
	}
}

func TestLoad_MissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.key"))
	if !errors.Is(err, kerrors.ErrKeyMaterial) {
		t.Fatalf("expected ErrKeyMaterial, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the not-exist cause to be preserved, got %v", err)
	}
}

func TestLoad_InvalidArtifacts(t *testing.T) {
	short := pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: make([]byte, 16)})
	full := pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: make([]byte, Size)})
	wrongType := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: make([]byte, Size)})

	tests := []struct {
		name    string
		content []byte
	}{
		{"empty file", []byte{}},
		{"not PEM", []byte("definitely not a key")},
		{"truncated PEM", full[:len(full)/2]},
		{"short key", short},
		{"wrong block type", wrongType},
		{"trailing garbage", append(append([]byte{}, full...), []byte("junk")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vault.key")
			if err := os.WriteFile(path, tt.content, 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			_, err := Load(path)
			if !errors.Is(err, kerrors.ErrKeyMaterial) {
				t.Errorf("expected ErrKeyMaterial, got %v", err)
			}
		})
	}
}

func TestLoadOrGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.key")

	created, isNew, err := LoadOrGenerate(path)
	if err != nil {
		t.Fatalf("LoadOrGenerate failed: %v", err)
	}
	if !isNew {
		t.Error("expected a new key on first run")
	}

	again, isNew, err := LoadOrGenerate(path)
	if err != nil {
		t.Fatalf("LoadOrGenerate failed: %v", err)
	}
	if isNew {
		t.Error("expected the existing key on second run")
	}
	if again != created {
		t.Error("second run returned a different key")
	}
}

func TestLoadOrGenerate_DoesNotReplaceCorruptKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.key")
	if err := os.WriteFile(path, []byte("corrupt"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, _, err := LoadOrGenerate(path); !errors.Is(err, kerrors.ErrKeyMaterial) {
		t.Fatalf("expected ErrKeyMaterial, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "corrupt" {
		t.Error("corrupt key artifact was overwritten")
	}
}

func TestDisplayEncoding_RoundTrip(t *testing.T) {
	key, _ := Generate()

	text := EncodeForDisplay(key)
	decoded, err := DecodeFromDisplay(text + "\n")
	if err != nil {
		t.Fatalf("DecodeFromDisplay failed: %v", err)
	}
	if decoded != key {
		t.Error("display round trip changed the key")
	}
}

func TestDecodeFromDisplay_Invalid(t *testing.T) {
	for _, text := range []string{"***", "c2hvcnQ="} {
		if _, err := DecodeFromDisplay(text); !errors.Is(err, kerrors.ErrKeyMaterial) {
			t.Errorf("DecodeFromDisplay(%q): expected ErrKeyMaterial, got %v", text, err)
		}
	}
}

func TestKey_StringRedacts(t *testing.T) {
	key, _ := Generate()
	if strings.Contains(key.String(), EncodeForDisplay(key)) {
		t.Error("String() exposed key material")
	}
	if len(Fingerprint(key)) != 16 {
		t.Errorf("expected 16 hex characters, got %q", Fingerprint(key))
	}
}
