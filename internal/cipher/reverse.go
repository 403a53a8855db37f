package cipher

import "github.com/PolarWolf314/securevault/internal/keys"

func init() {
	Register(AlgorithmReverse, func(keys.Key) (Strategy, error) { return Reverse{}, nil })
}

// Reverse is a reversible transform with no cryptographic value. It exists
// so stores and exporters can be exercised without real key material.
type Reverse struct{}

func (Reverse) Name() string { return AlgorithmReverse }

func (Reverse) Encrypt(plaintext []byte) ([]byte, error) { return reversed(plaintext), nil }

func (Reverse) Decrypt(ciphertext []byte) ([]byte, error) { return reversed(ciphertext), nil }

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
