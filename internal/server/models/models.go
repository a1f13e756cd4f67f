// Package models defines the server-side database entities.
package models

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

// SecurityQuestion stores one recovery question with a hashed answer.
// Answers are normalized before hashing and never stored in clear.
type SecurityQuestion struct {
	ID         int64
	UserID     int64
	Question   string
	AnswerHash string
}

// License is an issued license key. KeyID is the signed artifact's unique
// identifier (the JWT ID); the artifact itself is never stored.
type License struct {
	ID        int64
	KeyID     string
	Username  string
	Revoked   bool
	ExpiresAt *time.Time
	CreatedAt time.Time
}
