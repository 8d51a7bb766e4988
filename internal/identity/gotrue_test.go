package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeGoTrue(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Email != "admin@example.com" || body.Password != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"user": map[string]any{
				"id":    "u-1",
				"email": body.Email,
				"user_metadata": map[string]string{
					"username": "admin",
					"role":     "admin",
				},
			},
		})
	})

	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "service-key", r.Header.Get("apikey"))
		switch r.Header.Get("Authorization") {
		case "Bearer tok-123":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":    "u-1",
				"email": "admin@example.com",
				"user_metadata": map[string]string{
					"username": "admin",
					"role":     "admin",
				},
			})
		case "Bearer tok-viewer":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":            "u-2",
				"email":         "viewer@example.com",
				"user_metadata": map[string]string{"username": "viewer"},
			})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"msg": "invalid JWT"})
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T) *GoTrueProvider {
	srv := fakeGoTrue(t)
	return NewGoTrueProvider(srv.URL, "anon-key", "service-key", zap.NewNop())
}

func TestSignIn(t *testing.T) {
	p := newTestProvider(t)

	sess, err := p.SignIn(context.Background(), "admin@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok-123", sess.AccessToken)
	require.Equal(t, "admin", sess.Principal.Username)
	require.True(t, sess.Principal.IsAdmin())
}

func TestSignInWrongPassword(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.SignIn(context.Background(), "admin@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Contains(t, err.Error(), "Invalid login credentials")
}

func TestUserFromToken(t *testing.T) {
	p := newTestProvider(t)

	principal, err := p.UserFromToken(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, "u-1", principal.ID)
	require.True(t, principal.IsAdmin())
}

func TestUserFromTokenNonAdminRole(t *testing.T) {
	p := newTestProvider(t)

	principal, err := p.UserFromToken(context.Background(), "tok-viewer")
	require.NoError(t, err)
	require.False(t, principal.IsAdmin())
}

func TestUserFromTokenInvalid(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.UserFromToken(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}
