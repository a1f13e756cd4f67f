package questions

import (
	"context"

	"github.com/frostgate/frostgate/internal/server/models"
)

type Repository interface {
	// Replace deletes the user's existing questions and stores the new set
	// in one shot.
	Replace(ctx context.Context, userID int64, qs []models.SecurityQuestion) error
	GetByUser(ctx context.Context, userID int64) ([]models.SecurityQuestion, error)
}
