// Package models defines the client-side domain types. All of them are
// read-only snapshots of server state: the client never mutates a User or
// Session it has been handed.
package models

import "time"

// User is a server-side account. ID is the identity; Username is the
// human-facing lookup key.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Session represents one authenticated login, issued by the server and
// destroyed on logout or when the server reports it invalid.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CachedPair is the single durable record the client keeps between runs:
// the last validated session together with its user.
type CachedPair struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}
