// Package httpapi exposes the server's JSON API: credential operations,
// session and license validation, user lookup and license administration.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/frostgate/frostgate/internal/common"
	"github.com/frostgate/frostgate/internal/logging"
	"github.com/frostgate/frostgate/internal/server/models"
)

// The handler depends on narrow service interfaces so tests can substitute
// fakes without a database.

type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context, sessionID int64) error
	SetSecurityQuestions(ctx context.Context, username string, answers map[string]string) error
	RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error
}

type SessionService interface {
	Validate(ctx context.Context, sessionID int64) (bool, error)
}

type UserService interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type LicenseService interface {
	Issue(ctx context.Context, username string) (string, error)
	Validate(ctx context.Context, key string) (bool, error)
	Revoke(ctx context.Context, keyID string) error
}

type Handler struct {
	auth     AuthService
	sessions SessionService
	users    UserService
	licenses LicenseService
	log      logging.Logger
}

func NewHandler(auth AuthService, sessions SessionService, users UserService, licenses LicenseService, log logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{auth: auth, sessions: sessions, users: users, licenses: licenses, log: log}
}

// sessionDTO matches the JSON shape the client unmarshals.
type sessionDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type userDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func toSessionDTO(s *models.Session) sessionDTO {
	return sessionDTO{ID: s.ID, UserID: s.UserID, CreatedAt: s.CreatedAt}
}

// renderError maps service sentinels to HTTP statuses and renders the
// {"error": ...} payload the client expects.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrorValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrLicenseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		// Do not leak internals in the response body.
		err = common.ErrorInternal
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	user, err := h.auth.Register(r.Context(), in.Username, in.Password)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]userDTO{"user": {ID: user.ID, Username: user.Username}})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	session, err := h.auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]sessionDTO{"session": toSessionDTO(session)})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SessionID int64 `json:"session_id"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	if err := h.auth.Logout(r.Context(), in.SessionID); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) setSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username  string            `json:"username"`
		Questions map[string]string `json:"questions"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	if err := h.auth.SetSecurityQuestions(r.Context(), in.Username, in.Questions); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) recoverPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username    string            `json:"username"`
		Answers     map[string]string `json:"answers"`
		NewPassword string            `json:"new_password"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	if err := h.auth.RecoverPassword(r.Context(), in.Username, in.Answers, in.NewPassword); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]userDTO{"user": {ID: user.ID, Username: user.Username}})
}

func (h *Handler) validateSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	valid, err := h.sessions.Validate(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"valid": valid})
}

func (h *Handler) validateLicense(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Key string `json:"key"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	valid, err := h.licenses.Validate(r.Context(), in.Key)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"valid": valid})
}

func (h *Handler) issueLicense(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil || in.Username == "" {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	key, err := h.licenses.Issue(r.Context(), in.Username)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"key": key})
}

func (h *Handler) revokeLicense(w http.ResponseWriter, r *http.Request) {
	var in struct {
		KeyID string `json:"key_id"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil || in.KeyID == "" {
		h.renderError(w, r, common.ErrorValidation)
		return
	}

	if err := h.licenses.Revoke(r.Context(), in.KeyID); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
