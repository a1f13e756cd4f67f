// Package gate implements the session & license gate controller: the one
// place that owns authentication and licensing state, runs the two
// verification flows in order, and turns their combined outcome into
// navigation and presentation intents.
package gate

import "github.com/frostgate/frostgate/internal/client/models"

// AuthState is the controller's single source of truth for authentication.
// Invariant: IsAuthenticated is true iff User and Session are both non-nil
// and the session was last confirmed valid.
type AuthState struct {
	IsAuthenticated bool
	User            *models.User
	Session         *models.Session
}

// State is the derived gate state. It is computed from the license status
// and AuthState, never stored independently.
type State string

const (
	// StateBootstrapping means the license check has not resolved yet.
	StateBootstrapping State = "bootstrapping"

	// StateLicenseInvalid overrides everything else: without a valid
	// license the only destination is the purchase flow.
	StateLicenseInvalid State = "license_invalid"

	// StateUnauthenticated means the license is good but there is no
	// confirmed session, and the account lookup has not run yet.
	StateUnauthenticated State = "unauthenticated"

	// StateNoAccount / StateHasAccount refine StateUnauthenticated after
	// the username lookup: they decide between sign-up and sign-in.
	StateNoAccount  State = "no_account"
	StateHasAccount State = "has_account"

	// StateAuthenticated means license and session are both confirmed.
	StateAuthenticated State = "authenticated"
)

// accountStatus tracks the outcome of the last username lookup.
type accountStatus int

const (
	accountUnknown accountStatus = iota
	accountMissing
	accountExists
)
