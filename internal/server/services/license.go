package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/frostgate/frostgate/internal/common"
	"github.com/frostgate/frostgate/internal/licensekey"
	"github.com/frostgate/frostgate/internal/server/config"
	"github.com/frostgate/frostgate/internal/server/models"
	"github.com/frostgate/frostgate/internal/server/repositories/repomanager"
)

// LicenseService issues, validates and revokes license keys. A key is only
// good when its signature verifies and its database record is present,
// unrevoked, and unexpired; signature alone is never enough.
type LicenseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secret      []byte
	validity    time.Duration
}

func NewLicenseService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *LicenseService {
	return &LicenseService{
		db:          db,
		repomanager: m,
		secret:      []byte(cfg.SecretKey),
		validity:    cfg.LicenseValidity,
	}
}

// Issue signs a new license key for username and records it. A configured
// validity of zero issues perpetual keys.
func (s *LicenseService) Issue(ctx context.Context, username string) (string, error) {
	var expiresAt time.Time
	if s.validity > 0 {
		expiresAt = time.Now().Add(s.validity)
	}

	key, err := licensekey.Sign(username, s.secret, expiresAt)
	if err != nil {
		return "", fmt.Errorf("signing license key: %w", err)
	}

	claims, err := licensekey.Decode(key)
	if err != nil {
		return "", fmt.Errorf("decoding issued key: %w", err)
	}

	lic := &models.License{KeyID: claims.ID, Username: username}
	if !expiresAt.IsZero() {
		lic.ExpiresAt = &expiresAt
	}

	if _, err := s.repomanager.Licenses(s.db).Create(ctx, lic); err != nil {
		return "", fmt.Errorf("recording license: %w", err)
	}
	return key, nil
}

// Validate reports whether the presented key is currently good. Bad
// signatures, unknown keys, revocation and expiry all read as false without
// an error; only infrastructure failures are errors.
func (s *LicenseService) Validate(ctx context.Context, key string) (bool, error) {
	claims, err := licensekey.Verify(key, s.secret)
	if err != nil {
		return false, nil
	}

	lic, err := s.repomanager.Licenses(s.db).GetByKeyID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrLicenseNotFound) {
			return false, nil
		}
		return false, common.ErrorInternal
	}

	if lic.Revoked {
		return false, nil
	}
	if lic.ExpiresAt != nil && lic.ExpiresAt.Before(time.Now()) {
		return false, nil
	}
	return true, nil
}

// Revoke permanently invalidates a key by its identifier.
func (s *LicenseService) Revoke(ctx context.Context, keyID string) error {
	return s.repomanager.Licenses(s.db).Revoke(ctx, keyID)
}
