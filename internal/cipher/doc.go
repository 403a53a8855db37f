// Package cipher provides the interchangeable encryption strategies used to
// protect each line of the record log.
//
// # Strategies
//
// A Strategy encrypts and decrypts opaque byte buffers. The registered
// strategies are:
//
//   - aes-256-gcm: AES-256 in Galois/Counter Mode (default)
//   - xchacha20-poly1305: XChaCha20-Poly1305 with a 24-byte nonce
//   - secretbox: NaCl secretbox (XSalsa20-Poly1305)
//   - reverse: byte reversal, for tests only; provides no security
//
// The authenticated strategies draw a fresh random nonce for every call and
// prepend it to the sealed output:
//
//	nonce || ciphertext || tag
//
// Encrypting the same plaintext twice therefore never produces the same
// bytes. A fixed nonce under one key would leak plaintext equality and, for
// GCM, allow forgeries, so no strategy accepts a caller-supplied nonce.
//
// # Selection
//
// Strategies are resolved by name from a static registry:
//
//	s, err := cipher.New(settings.Cipher, key)
//
// # Tokens
//
// EncryptToken and DecryptToken wrap a strategy's output in standard base64
// so it can be stored as one line of text.
//
// # Errors
//
// Every failure is an ErrCipher fault. Decrypting with the wrong key,
// tampered bytes or truncated input always fails; it never returns
// plausible-looking garbage.
package cipher
