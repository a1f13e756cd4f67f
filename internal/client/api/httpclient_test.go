package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/frostgate/frostgate/internal/common"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewHTTPClient(srv.URL, 5*time.Second)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		require.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))

		var in struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "alice", in.Username)
		require.Equal(t, "hunter22", in.Password)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"session": map[string]any{"id": 7, "user_id": 42, "created_at": time.Now()},
		})
	})

	s, err := c.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)
	require.EqualValues(t, 7, s.ID)
	require.EqualValues(t, 42, s.UserID)
}

func TestLogin_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid username or password"})
	})

	_, err := c.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrAuthentication)
	require.Contains(t, err.Error(), "invalid username or password")
}

func TestLogin_EmptySessionBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	_, err := c.Login(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogin_ServerError_IsTransient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Login(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrTransient)
}

func TestLogin_Unreachable_IsTransient(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", time.Second)
	defer c.Close()

	_, err := c.Login(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrTransient)
}

func TestRegister_DuplicateSurfacedVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "username already taken"})
	})

	err := c.Register(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrRegistration)
	require.Contains(t, err.Error(), "username already taken")
}

func TestValidateSession_TrueAndFalse(t *testing.T) {
	for _, valid := range []bool{true, false} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/sessions/99/validate", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]bool{"valid": valid})
		})

		got, err := c.ValidateSession(context.Background(), 99)
		require.NoError(t, err)
		require.Equal(t, valid, got)
	}
}

func TestValidateSession_RejectionIsFalseNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	})

	got, err := c.ValidateSession(context.Background(), 12345)
	require.NoError(t, err)
	require.False(t, got)
}

func TestValidateLicense_RejectionIsFalseNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid license key"})
	})

	got, err := c.ValidateLicense(context.Background(), "garbage")
	require.NoError(t, err)
	require.False(t, got)
}

func TestValidateLicense_TransportFailureIsError(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", time.Second)
	defer c.Close()

	_, err := c.ValidateLicense(context.Background(), "key")
	require.ErrorIs(t, err, ErrTransient)
}

func TestGetUserByUsername_MissIsNilNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	})

	u, err := c.GetUserByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestGetUserByUsername_Hit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/users/alice", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 42, "username": "alice"},
		})
	})

	u, err := c.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.EqualValues(t, 42, u.ID)
	require.Equal(t, "alice", u.Username)
}

func TestRecoverPassword_WrongAnswers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "incorrect answer provided"})
	})

	err := c.RecoverPassword(context.Background(), "alice", map[string]string{"q": "a"}, "newpw")
	require.ErrorIs(t, err, ErrRecovery)
}

func TestSetSecurityQuestions_MalformedMap(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "exactly 3 questions required"})
	})

	err := c.SetSecurityQuestions(context.Background(), "alice", map[string]string{"q": "a"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDo_ContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Login(ctx, "alice", "pw")
	require.Error(t, err)
}
