package licenses

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

func (r *PostgresRepository) Create(ctx context.Context, lic *models.License) (*models.License, error) {

	query :=
		`INSERT INTO licenses (key_id, username, expires_at)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		lic.KeyID, lic.Username, lic.ExpiresAt).Scan(&lic.ID, &lic.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return lic, nil
}

func (r *PostgresRepository) GetByKeyID(ctx context.Context, keyID string) (*models.License, error) {
	query :=
		`SELECT id, key_id, username, revoked, expires_at, created_at FROM licenses
		 WHERE key_id = $1
		 `

	lic := &models.License{}
	err := r.db.QueryRowContext(ctx, query, keyID).Scan(
		&lic.ID, &lic.KeyID, &lic.Username, &lic.Revoked, &lic.ExpiresAt, &lic.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return lic, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, keyID string) error {
	query := `UPDATE licenses SET revoked = true WHERE key_id = $1`

	res, err := r.db.ExecContext(ctx, query, keyID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrLicenseNotFound
	}
	return nil
}
