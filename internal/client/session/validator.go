// Package session holds the client-side session validator.
package session

import (
	"context"

	"github.com/frostgate/frostgate/internal/client/api"
	"github.com/frostgate/frostgate/internal/logging"
)

// Validator confirms a cached session with the backend. On a negative
// answer or a call failure the session must be treated as dead; stale
// sessions are never retried, the user re-authenticates.
type Validator struct {
	client api.Client
	log    logging.Logger
}

func NewValidator(client api.Client, log logging.Logger) *Validator {
	return &Validator{client: client, log: log.With("component", "session")}
}

// Check returns true only when the server confirms the session is alive.
func (v *Validator) Check(ctx context.Context, sessionID int64) bool {
	valid, err := v.client.ValidateSession(ctx, sessionID)
	if err != nil {
		v.log.Warn(ctx, "session validation call failed", "session_id", sessionID, "error", err)
		return false
	}
	return valid
}
