// Package api defines the narrow contract the client consumes from the
// backend and its HTTP implementation. Everything above this package talks
// to the interface; nothing above it knows about transport.
package api

import (
	"context"

	"github.com/frostgate/frostgate/internal/client/models"
)

// Client is the backend collaborator contract. Implementations perform one
// remote call per method, no retries; retry policy belongs to callers.
type Client interface {
	Close() error

	// ValidateLicense submits a locally read license artifact for remote
	// validation.
	ValidateLicense(ctx context.Context, artifact string) (bool, error)

	// ValidateSession asks whether a previously issued session is still
	// alive. It deliberately does not return the user record: a true result
	// means the locally cached pair may be trusted.
	ValidateSession(ctx context.Context, sessionID int64) (bool, error)

	// Login exchanges credentials for a new session. Rejected credentials
	// surface as ErrAuthentication.
	Login(ctx context.Context, username, password string) (*models.Session, error)

	// Register creates a new account. It does not log the user in.
	Register(ctx context.Context, username, password string) error

	// Logout invalidates a session server-side.
	Logout(ctx context.Context, sessionID int64) error

	// SetSecurityQuestions stores the finalized recovery question map for
	// username. The set must already be validated client-side.
	SetSecurityQuestions(ctx context.Context, username string, questions map[string]string) error

	// RecoverPassword submits recovery answers plus the new password.
	RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error

	// GetUserByUsername looks up an account. A miss is (nil, nil), not an
	// error.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
