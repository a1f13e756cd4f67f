package sessions

import (
	"context"

	"github.com/frostgate/frostgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64) (*models.Session, error)
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}
