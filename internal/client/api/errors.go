package api

import "errors"

// Typed failures of the credential operations. The UI matches these with
// errors.Is to pick an error message; the gate never retries them.
var (
	// ErrAuthentication is returned when login credentials are rejected or
	// the server returns no session.
	ErrAuthentication = errors.New("invalid credentials")

	// ErrRegistration is returned when account creation is rejected, e.g.
	// for a duplicate username.
	ErrRegistration = errors.New("registration rejected")

	// ErrValidation is returned when the server rejects the shape of a
	// security-question submission.
	ErrValidation = errors.New("invalid submission")

	// ErrRecovery is returned on mismatched recovery answers or an unknown
	// username.
	ErrRecovery = errors.New("password recovery rejected")

	// ErrTransient covers unreachable backend, timeouts and 5xx responses.
	ErrTransient = errors.New("backend unavailable")
)
