// Package common defines shared constants and sentinel errors used across
// the client and server halves of Frostgate. Callers should match these
// values with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorValidation    = errors.New("validation error")

	// License errors.
	ErrLicenseNotFound = errors.New("license not found")
	ErrLicenseExpired  = errors.New("license expired")
	ErrLicenseInvalid  = errors.New("invalid license key")
)
