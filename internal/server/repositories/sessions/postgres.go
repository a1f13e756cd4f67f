package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frostgate/frostgate/internal/common"
	"github.com/frostgate/frostgate/internal/dbx"
	"github.com/frostgate/frostgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64) (*models.Session, error) {

	query :=
		`INSERT INTO sessions (user_id)
         VALUES ($1)
		 RETURNING id, created_at
		 `

	session := &models.Session{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query :=
		`SELECT id, user_id, created_at FROM sessions
		 WHERE id = $1
		 `

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&session.ID, &session.UserID, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
