package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/keys"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	AlgorithmAESGCM    = "aes-256-gcm"
	AlgorithmXChaCha   = "xchacha20-poly1305"
	AlgorithmSecretbox = "secretbox"
	AlgorithmReverse   = "reverse"
)

func init() {
	Register(AlgorithmAESGCM, func(key keys.Key) (Strategy, error) { return NewAESGCM(key) })
	Register(AlgorithmXChaCha, func(key keys.Key) (Strategy, error) { return NewXChaCha20Poly1305(key) })
}

// aeadStrategy adapts a stdlib-shaped AEAD to Strategy with a random,
// prepended nonce.
type aeadStrategy struct {
	name string
	aead stdcipher.AEAD
}

// NewAESGCM returns the AES-256-GCM strategy.
func NewAESGCM(key keys.Key) (Strategy, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, kerrors.CipherFault("create aes cipher", err)
	}
	gcm, err := stdcipher.NewGCM(block)
	if err != nil {
		return nil, kerrors.CipherFault("create gcm", err)
	}
	return &aeadStrategy{name: AlgorithmAESGCM, aead: gcm}, nil
}

// NewXChaCha20Poly1305 returns the XChaCha20-Poly1305 strategy.
func NewXChaCha20Poly1305(key keys.Key) (Strategy, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, kerrors.CipherFault("create xchacha20-poly1305", err)
	}
	return &aeadStrategy{name: AlgorithmXChaCha, aead: aead}, nil
}

func (s *aeadStrategy) Name() string { return s.name }

func (s *aeadStrategy) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, kerrors.CipherFault("generate nonce", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *aeadStrategy) Decrypt(ciphertext []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(ciphertext) < ns+s.aead.Overhead() {
		return nil, kerrors.CipherFault("decrypt", fmt.Errorf("%w: %d bytes", kerrors.ErrCiphertextTooShort, len(ciphertext)))
	}

	plaintext, err := s.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
	if err != nil {
		return nil, kerrors.CipherFault("decrypt", fmt.Errorf("%w: %v", kerrors.ErrAuthenticationFailed, err))
	}
	return plaintext, nil
}
