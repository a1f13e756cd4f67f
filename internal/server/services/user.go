package services

import (
	"context"
	"database/sql"

	"github.com/frostgate/frostgate/internal/server/models"
	"github.com/frostgate/frostgate/internal/server/repositories/repomanager"
)

// UserService exposes read-only account lookups. The client's gate uses it
// to decide between sign-in and sign-up for a remembered username.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// GetByUsername returns the user or common.ErrorNotFound. The password hash
// never leaves the service layer.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
