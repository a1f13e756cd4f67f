package license

import (
	"context"

	"github.com/frostgate/frostgate/internal/client/api"
	"github.com/frostgate/frostgate/internal/licensekey"
	"github.com/frostgate/frostgate/internal/logging"
)

// Validator resolves the install's license status to a single boolean.
// It is stateless and idempotent: the same artifact yields the same answer,
// and every failure mode folds into false. A failed check is never an
// error to the caller; it only changes where the gate navigates.
type Validator struct {
	artifacts ArtifactReader
	client    api.Client
	log       logging.Logger
}

func NewValidator(artifacts ArtifactReader, client api.Client, log logging.Logger) *Validator {
	return &Validator{artifacts: artifacts, client: client, log: log.With("component", "license")}
}

// Check reads the local artifact and submits it for remote validation.
func (v *Validator) Check(ctx context.Context) bool {
	artifact, err := v.artifacts.Read()
	if err != nil {
		v.log.Info(ctx, "no usable license artifact installed")
		return false
	}

	// The local decode is informational only; the server's answer decides.
	if claims, err := licensekey.Decode(artifact); err == nil {
		v.log.Debug(ctx, "license artifact read",
			"licensed_user", claims.Username,
			"expires_at", claims.ExpiresAt)
	}

	valid, err := v.client.ValidateLicense(ctx, artifact)
	if err != nil {
		v.log.Warn(ctx, "license validation call failed", "error", err)
		return false
	}
	if !valid {
		v.log.Info(ctx, "license rejected by server")
	}
	return valid
}
