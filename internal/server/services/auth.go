// Package services contains server-side business logic. This file implements
// AuthService: registration, login, logout, security questions and password
// recovery.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frostgate/frostgate/internal/common"
	"github.com/frostgate/frostgate/internal/dbx"
	"github.com/frostgate/frostgate/internal/server/config"
	"github.com/frostgate/frostgate/internal/server/models"
	"github.com/frostgate/frostgate/internal/server/repositories/repomanager"
)

// Account rules shared with the sign-up flow on the client.
const (
	MinUsernameLen = 3
	MinPasswordLen = 8

	// QuestionSetSize is the exact number of security questions an account
	// must configure before recovery is possible.
	QuestionSetSize = 3
)

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bcryptCost  int
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{db: db, repomanager: m, bcryptCost: cost}
}

// Register creates a new account. Duplicate usernames yield
// ErrorAlreadyExists; rule violations yield ErrorValidation.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if len(username) < MinUsernameLen {
		return nil, fmt.Errorf("%w: username must be at least %d characters", common.ErrorValidation, MinUsernameLen)
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLen)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{Username: username, PasswordHash: string(hash)})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and opens a new session. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	session, err := s.repomanager.Sessions(s.db).Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	return session, nil
}

// Logout revokes a session. Revoking an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID int64) error {
	return s.repomanager.Sessions(s.db).Delete(ctx, sessionID)
}

// SetSecurityQuestions replaces the user's recovery questions. Exactly
// QuestionSetSize distinct questions with non-empty answers are required;
// answers are normalized and hashed before storage.
func (s *AuthService) SetSecurityQuestions(ctx context.Context, username string, answers map[string]string) error {
	if len(answers) != QuestionSetSize {
		return fmt.Errorf("%w: exactly %d security questions required", common.ErrorValidation, QuestionSetSize)
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	qs := make([]models.SecurityQuestion, 0, QuestionSetSize)
	for question, answer := range answers {
		if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
			return fmt.Errorf("%w: questions and answers must be non-empty", common.ErrorValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(normalizeAnswer(answer)), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hashing answer: %w", err)
		}
		qs = append(qs, models.SecurityQuestion{UserID: user.ID, Question: question, AnswerHash: string(hash)})
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Questions(tx).Replace(ctx, user.ID, qs)
	})
}

// RecoverPassword resets the password when every stored security question is
// answered correctly. All sessions of the user are revoked on success.
func (s *AuthService) RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error {
	if len(newPassword) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLen)
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	stored, err := s.repomanager.Questions(s.db).GetByUser(ctx, user.ID)
	if err != nil {
		return common.ErrorInternal
	}
	if len(stored) == 0 {
		// No questions configured means no recovery path.
		return common.ErrorUnauthorized
	}

	for _, q := range stored {
		answer, ok := answers[q.Question]
		if !ok {
			return common.ErrorUnauthorized
		}
		if bcrypt.CompareHashAndPassword([]byte(q.AnswerHash), []byte(normalizeAnswer(answer))) != nil {
			return common.ErrorUnauthorized
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).DeleteByUser(ctx, user.ID)
	})
}

// normalizeAnswer makes answer comparison forgiving about case and
// surrounding whitespace.
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
