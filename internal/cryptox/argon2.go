package cryptox

import "golang.org/x/crypto/argon2"

// DeriveKey derives a 32-byte AES-256 key from a secret and salt using
// argon2id. Parameters follow the library's recommended interactive
// settings.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}
