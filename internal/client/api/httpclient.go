package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/frostgate/frostgate/internal/client/models"
	"github.com/frostgate/frostgate/internal/common"
)

// HTTPClient implements Client over the backend's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8080". The timeout bounds every individual call;
// callers may tighten it further per call via context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// apiError is the error payload the backend renders.
type apiError struct {
	Error string `json:"error"`
}

// do performs one JSON request. A non-nil out is filled from a 2xx body.
// Non-2xx responses are returned as *statusError so callers can map them
// per endpoint.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %s", ErrTransient, resp.Status)
	}

	if resp.StatusCode >= 400 {
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err != nil || ae.Error == "" {
			ae.Error = resp.Status
		}
		return &statusError{code: resp.StatusCode, message: ae.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// statusError carries the HTTP status and the server's message until the
// calling method maps it to a sentinel.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string { return e.message }

// mapStatus converts a statusError to the endpoint's sentinel, keeping the
// server message verbatim. Other errors pass through unchanged.
func mapStatus(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*statusError); ok {
		return fmt.Errorf("%w: %s", sentinel, se.message)
	}
	return err
}

func (c *HTTPClient) ValidateLicense(ctx context.Context, artifact string) (bool, error) {
	in := struct {
		Key string `json:"key"`
	}{Key: artifact}
	var out struct {
		Valid bool `json:"valid"`
	}

	if err := c.do(ctx, http.MethodPost, "/api/v1/license/validate", in, &out); err != nil {
		if _, ok := err.(*statusError); ok {
			// A rejected artifact is a negative answer, not a failure.
			return false, nil
		}
		return false, err
	}
	return out.Valid, nil
}

func (c *HTTPClient) ValidateSession(ctx context.Context, sessionID int64) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	path := fmt.Sprintf("/api/v1/sessions/%d/validate", sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if _, ok := err.(*statusError); ok {
			return false, nil
		}
		return false, err
	}
	return out.Valid, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}
	var out struct {
		Session *models.Session `json:"session"`
	}

	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", in, &out); err != nil {
		return nil, mapStatus(err, ErrAuthentication)
	}
	if out.Session == nil {
		// An empty success body is as bad as a rejection.
		return nil, ErrAuthentication
	}
	return out.Session, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	return mapStatus(c.do(ctx, http.MethodPost, "/api/v1/auth/register", in, nil), ErrRegistration)
}

func (c *HTTPClient) Logout(ctx context.Context, sessionID int64) error {
	in := struct {
		SessionID int64 `json:"session_id"`
	}{SessionID: sessionID}

	return mapStatus(c.do(ctx, http.MethodPost, "/api/v1/auth/logout", in, nil), ErrTransient)
}

func (c *HTTPClient) SetSecurityQuestions(ctx context.Context, username string, questions map[string]string) error {
	in := struct {
		Username  string            `json:"username"`
		Questions map[string]string `json:"questions"`
	}{Username: username, Questions: questions}

	return mapStatus(c.do(ctx, http.MethodPost, "/api/v1/auth/security-questions", in, nil), ErrValidation)
}

func (c *HTTPClient) RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error {
	in := struct {
		Username    string            `json:"username"`
		Answers     map[string]string `json:"answers"`
		NewPassword string            `json:"new_password"`
	}{Username: username, Answers: answers, NewPassword: newPassword}

	return mapStatus(c.do(ctx, http.MethodPost, "/api/v1/auth/recover", in, nil), ErrRecovery)
}

func (c *HTTPClient) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}

	err := c.do(ctx, http.MethodGet, "/api/v1/users/"+username, nil, &out)
	if err != nil {
		if se, ok := err.(*statusError); ok && se.code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out.User, nil
}
