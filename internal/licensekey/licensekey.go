// Package licensekey defines the license artifact format shared by client
// and server: an HS256-signed token carrying the licensed username and
// expiry. The server signs and verifies; the client only decodes the claims
// for display; the authoritative check is always the remote validation
// call.
package licensekey

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidKey = errors.New("invalid license key")
	ErrExpiredKey = errors.New("license key expired")
)

// Claims is the payload of a license key. ID is a unique key identifier
// assigned at issue time, used by the server to track activations.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Sign issues a new license key for username, valid until expiresAt. A zero
// expiresAt issues a perpetual key.
func Sign(username string, secret []byte, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Username: username,
	}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks the signature and expiry of a license key and returns its
// claims. Expired keys return ErrExpiredKey; everything else that fails to
// parse returns ErrInvalidKey.
func Verify(key string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(key, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredKey
		}
		return nil, ErrInvalidKey
	}
	if !token.Valid {
		return nil, ErrInvalidKey
	}

	return claims, nil
}

// Decode parses the claims without verifying the signature. The client uses
// it to show the licensed user and expiry; trust still comes from Verify on
// the server.
func Decode(key string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return nil, ErrInvalidKey
	}
	return claims, nil
}
