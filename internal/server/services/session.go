package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/frostgate/frostgate/internal/common"
	"github.com/frostgate/frostgate/internal/server/config"
	"github.com/frostgate/frostgate/internal/server/repositories/repomanager"
)

type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	maxAge      time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{db: db, repomanager: m, maxAge: cfg.SessionMaxAge}
}

// Validate reports whether the session exists and is within the configured
// max age. A max age of zero means sessions never expire. Expired sessions
// are deleted as a side effect.
func (s *SessionService) Validate(ctx context.Context, sessionID int64) (bool, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, common.ErrorInternal
	}

	if s.maxAge > 0 && time.Since(session.CreatedAt) > s.maxAge {
		if err := repo.Delete(ctx, sessionID); err != nil {
			return false, common.ErrorInternal
		}
		return false, nil
	}

	return true, nil
}
