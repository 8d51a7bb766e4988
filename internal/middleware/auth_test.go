package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karmic/catalog/internal/identity"
)

// fakeProvider resolves tokens from a fixed map.
type fakeProvider struct {
	tokens map[string]*identity.Principal
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	return nil, identity.ErrInvalidCredentials
}

func (f *fakeProvider) UserFromToken(ctx context.Context, token string) (*identity.Principal, error) {
	if p, ok := f.tokens[token]; ok {
		return p, nil
	}
	return nil, identity.ErrInvalidToken
}

func guardedHandler(t *testing.T) http.Handler {
	t.Helper()
	provider := &fakeProvider{tokens: map[string]*identity.Principal{
		"admin-token":  {ID: "u-1", Email: "admin@example.com", Role: "admin"},
		"viewer-token": {ID: "u-2", Email: "viewer@example.com", Role: ""},
	}}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "u-1", p.ID)
		w.WriteHeader(http.StatusOK)
	})
	return RequireAdmin(provider, zap.NewNop())(inner)
}

func TestRequireAdminNoToken(t *testing.T) {
	rec := httptest.NewRecorder()
	guardedHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/quotations", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminMalformedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/quotations", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	guardedHandler(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminInvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/quotations", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	guardedHandler(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminWrongRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/quotations", nil)
	req.Header.Set("Authorization", "Bearer viewer-token")
	rec := httptest.NewRecorder()
	guardedHandler(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminAllows(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/quotations", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	guardedHandler(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
