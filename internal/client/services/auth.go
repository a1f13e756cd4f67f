// Package services contains the client's application services. This file
// defines the credential operations: login, registration, logout, security
// question setup and password recovery. Each operation is a single protocol
// step against the backend, with no internal retry; retry policy and state
// mutation are the gate controller's business.
package services

import (
	"context"
	"fmt"

	"github.com/frostgate/frostgate/internal/client/api"
	"github.com/frostgate/frostgate/internal/client/models"
	"github.com/frostgate/frostgate/internal/client/signup"
)

// AuthService defines the credential operations.
//
// Contract:
//   - Login: exchange credentials for a session; the session is NOT
//     persisted here.
//   - Register: create the account; does not log in.
//   - Logout: best-effort remote invalidation; local cleanup belongs to the
//     caller and must happen regardless of this call's outcome.
//   - SetSecurityQuestions: send a finalized, pre-validated question map.
//   - RecoverPassword: submit answers plus the new password.
//
// All methods honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Register(ctx context.Context, username, password string) error
	Logout(ctx context.Context, sessionID int64) error
	SetSecurityQuestions(ctx context.Context, username string, questions map[string]string) error
	RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error
	Close() error
}

type authService struct {
	client api.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client api.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	session, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, api.ErrAuthentication
	}
	return session, nil
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	return a.client.Register(ctx, username, password)
}

func (a *authService) Logout(ctx context.Context, sessionID int64) error {
	return a.client.Logout(ctx, sessionID)
}

func (a *authService) SetSecurityQuestions(ctx context.Context, username string, questions map[string]string) error {
	if err := validateQuestionMap(questions); err != nil {
		return err
	}
	return a.client.SetSecurityQuestions(ctx, username, questions)
}

func (a *authService) RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error {
	return a.client.RecoverPassword(ctx, username, answers, newPassword)
}

func (a *authService) Close() error {
	return a.client.Close()
}

// validateQuestionMap is the last line of client-side validation before the
// wire. Uniqueness is already structural in a map; what can still be wrong
// here is the size (a duplicate collapsed upstream would show up short) and
// empty answers.
func validateQuestionMap(questions map[string]string) error {
	if len(questions) != signup.SetSize {
		return fmt.Errorf("%w: expected %d distinct questions, got %d",
			api.ErrValidation, signup.SetSize, len(questions))
	}
	for q, answer := range questions {
		if q == "" {
			return fmt.Errorf("%w: empty question", api.ErrValidation)
		}
		if answer == "" {
			return fmt.Errorf("%w: empty answer for %q", api.ErrValidation, q)
		}
	}
	return nil
}
