package cipher

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"sync"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/keys"
)

// Strategy encrypts and decrypts opaque byte buffers.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string

	// Encrypt returns self-contained ciphertext for plaintext.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt reverses Encrypt, failing with an ErrCipher fault on any
	// authentication or format error.
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Constructor builds a strategy around key.
type Constructor func(key keys.Key) (Strategy, error)

// Default is the strategy used when none is configured.
const Default = AlgorithmAESGCM

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register adds a constructor under name. It panics on duplicates, as it is
// only called from init functions.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("cipher: strategy %q registered twice", name))
	}
	registry[name] = ctor
}

// New resolves name in the registry and builds the strategy. An empty name
// selects Default.
func New(name string, key keys.Key) (Strategy, error) {
	if name == "" {
		name = Default
	}

	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownCipher, name)
	}
	return ctor(key)
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tokenEncoding rejects non-zero padding bits so that every token has
// exactly one accepted spelling.
var tokenEncoding = base64.StdEncoding.Strict()

// EncryptToken encrypts plaintext and returns it as printable text.
func EncryptToken(s Strategy, plaintext []byte) (string, error) {
	ct, err := s.Encrypt(plaintext)
	if err != nil {
		return "", err
	}
	return tokenEncoding.EncodeToString(ct), nil
}

// DecryptToken reverses EncryptToken.
func DecryptToken(s Strategy, token string) ([]byte, error) {
	// The decoder skips line breaks, which would let a damaged line pass.
	if strings.ContainsAny(token, "\r\n") {
		return nil, kerrors.CipherFault("decode token", fmt.Errorf("token contains a line break"))
	}
	ct, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return nil, kerrors.CipherFault("decode token", err)
	}
	return s.Decrypt(ct)
}
