package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frostgate/frostgate/internal/client/models"
)

// Storage keys. One well-known slot per concern; there is no multi-account
// support.
const (
	keySession      = "session"
	keyLastUsername = "last_username"
)

// Cache is the persistence port the gate controller talks to. Loads return
// fresh deserialized values on every call; no live references to the stored
// blob escape this package.
type Cache interface {
	// Save persists the session/user pair as one atomic write, replacing
	// any prior entry.
	Save(ctx context.Context, session models.Session, user models.User) error

	// Load returns the last saved pair, or nil if none exists or the stored
	// value is malformed. Malformed data never produces an error.
	Load(ctx context.Context) (*models.CachedPair, error)

	// Clear removes the stored pair. Idempotent.
	Clear(ctx context.Context) error

	// LastUsername returns the last username remembered by SetLastUsername,
	// or "" when none was recorded. Stored independently of the session.
	LastUsername(ctx context.Context) (string, error)

	// SetLastUsername remembers the username for the next sign-in/sign-up
	// decision.
	SetLastUsername(ctx context.Context, username string) error
}

// SessionCache implements Cache over the local key/value repository.
type SessionCache struct {
	repo Repository
}

func NewSessionCache(repo Repository) *SessionCache {
	return &SessionCache{repo: repo}
}

func (c *SessionCache) Save(ctx context.Context, session models.Session, user models.User) error {
	pair := models.CachedPair{Session: session, User: user}
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal session pair: %w", err)
	}
	return c.repo.Set(ctx, keySession, data)
}

func (c *SessionCache) Load(ctx context.Context) (*models.CachedPair, error) {
	data, err := c.repo.Get(ctx, keySession)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var pair models.CachedPair
	if err := json.Unmarshal(data, &pair); err != nil {
		// A corrupt record reads as logged-out.
		return nil, nil
	}
	return &pair, nil
}

func (c *SessionCache) Clear(ctx context.Context) error {
	return c.repo.Delete(ctx, keySession)
}

func (c *SessionCache) LastUsername(ctx context.Context) (string, error) {
	data, err := c.repo.Get(ctx, keyLastUsername)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *SessionCache) SetLastUsername(ctx context.Context, username string) error {
	return c.repo.Set(ctx, keyLastUsername, []byte(username))
}
