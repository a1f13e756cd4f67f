package questions

import (
	"context"
	"fmt"

	"github.com/frostgate/frostgate/internal/dbx"
	"github.com/frostgate/frostgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Replace assumes it runs inside a transaction when atomicity matters; the
// service layer wraps it with dbx.WithTx.
func (r *PostgresRepository) Replace(ctx context.Context, userID int64, qs []models.SecurityQuestion) error {

	if _, err := r.db.ExecContext(ctx, `DELETE FROM security_questions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`INSERT INTO security_questions (user_id, question, answer_hash)
		 VALUES ($1, $2, $3)
		 `

	for _, q := range qs {
		if _, err := r.db.ExecContext(ctx, query, userID, q.Question, q.AnswerHash); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID int64) ([]models.SecurityQuestion, error) {
	query :=
		`SELECT id, user_id, question, answer_hash FROM security_questions
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.SecurityQuestion
	for rows.Next() {
		var q models.SecurityQuestion
		if err := rows.Scan(&q.ID, &q.UserID, &q.Question, &q.AnswerHash); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
