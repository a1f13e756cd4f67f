// Package cryptox wraps the primitives used to keep the license artifact
// confidential at rest: argon2id key derivation and AES-GCM sealing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

// ErrMalformedBlob is returned by Open when the input is too short to carry
// a nonce or fails authentication.
var ErrMalformedBlob = errors.New("malformed encrypted blob")

// Seal encrypts plaintext with AES-GCM under key. The random 12-byte nonce
// is prepended to the ciphertext so the result is a single self-contained
// blob.
func Seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal. Any tampering or truncation
// results in ErrMalformedBlob.
func Open(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(blob) < aesgcm.NonceSize() {
		return nil, ErrMalformedBlob
	}

	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrMalformedBlob
	}
	return plaintext, nil
}
