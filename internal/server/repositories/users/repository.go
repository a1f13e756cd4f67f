package users

import (
	"context"

	"github.com/frostgate/frostgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}
