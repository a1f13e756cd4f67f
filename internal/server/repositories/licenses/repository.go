package licenses

import (
	"context"

	"github.com/frostgate/frostgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, lic *models.License) (*models.License, error)
	GetByKeyID(ctx context.Context, keyID string) (*models.License, error)
	Revoke(ctx context.Context, keyID string) error
}
