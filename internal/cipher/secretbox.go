package cipher

import (
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/keys"
	"golang.org/x/crypto/nacl/secretbox"
)

const secretboxNonceSize = 24

func init() {
	Register(AlgorithmSecretbox, func(key keys.Key) (Strategy, error) { return NewSecretbox(key), nil })
}

type secretboxStrategy struct {
	key [keys.Size]byte
}

// NewSecretbox returns the NaCl secretbox strategy.
func NewSecretbox(key keys.Key) Strategy {
	return &secretboxStrategy{key: key}
}

func (s *secretboxStrategy) Name() string { return AlgorithmSecretbox }

func (s *secretboxStrategy) Encrypt(plaintext []byte) ([]byte, error) {
	var nonce [secretboxNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, kerrors.CipherFault("generate nonce", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &s.key), nil
}

func (s *secretboxStrategy) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < secretboxNonceSize+secretbox.Overhead {
		return nil, kerrors.CipherFault("decrypt", fmt.Errorf("%w: %d bytes", kerrors.ErrCiphertextTooShort, len(ciphertext)))
	}

	var nonce [secretboxNonceSize]byte
	copy(nonce[:], ciphertext[:secretboxNonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[secretboxNonceSize:], &nonce, &s.key)
	if !ok {
		return nil, kerrors.CipherFault("decrypt", kerrors.ErrAuthenticationFailed)
	}
	return plaintext, nil
}
