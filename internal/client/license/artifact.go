// Package license holds the client half of license handling: the encrypted
// on-disk artifact and the validator that resolves it to a boolean.
package license

import (
	"encoding/base64"
	"os"

	"github.com/frostgate/frostgate/internal/common"
	"github.com/frostgate/frostgate/internal/cryptox"
)

// artifactSalt is the fixed derivation salt for the at-rest key. The secret
// itself comes from configuration; the salt only separates this use of the
// secret from any other.
var artifactSalt = []byte("frostgate/license-artifact/v1")

// ArtifactReader is what the validator needs: the raw license key string,
// or common.ErrLicenseNotFound when nothing usable is installed.
type ArtifactReader interface {
	Read() (string, error)
}

// ArtifactStore keeps the license key AES-GCM-encrypted in a local file.
// Whatever goes wrong reading it back (missing file, bad base64, failed
// authentication) reads as "no license installed".
type ArtifactStore struct {
	path string
	key  []byte
}

func NewArtifactStore(path string, secret []byte) *ArtifactStore {
	return &ArtifactStore{
		path: path,
		key:  cryptox.DeriveKey(secret, artifactSalt),
	}
}

// Save encrypts and writes the license key, replacing any previous one.
func (s *ArtifactStore) Save(artifact string) error {
	blob, err := cryptox.Seal(s.key, []byte(artifact))
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(blob)
	return os.WriteFile(s.path, []byte(encoded), 0o600)
}

// Read decrypts and returns the stored license key.
func (s *ArtifactStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", common.ErrLicenseNotFound
	}

	blob, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return "", common.ErrLicenseNotFound
	}

	plaintext, err := cryptox.Open(s.key, blob)
	if err != nil {
		return "", common.ErrLicenseNotFound
	}

	return string(plaintext), nil
}

// Remove deletes the stored artifact. Idempotent.
func (s *ArtifactStore) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
