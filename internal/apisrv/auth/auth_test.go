package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubAdmins struct {
	known map[string]bool
	err   error
}

func (s *stubAdmins) AdminExists(ctx context.Context, email string) (bool, error) {
	return s.known[email], s.err
}

func protected(t *testing.T, admins *stubAdmins) (*Guard, http.Handler) {
	t.Helper()
	g := New(&Config{JWTSecret: "test-secret"}, admins)
	h := g.WithAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ActorEmail(r)))
	}))
	return g, h
}

func bearer(t *testing.T, g *Guard, claims map[string]any) string {
	t.Helper()
	_, token, err := g.JwtAuth.Encode(claims)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestWithAuth_ValidAdmin(t *testing.T) {
	g, h := protected(t, &stubAdmins{known: map[string]bool{"admin@agrimarket.test": true}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, g, map[string]any{"email": "admin@agrimarket.test"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "admin@agrimarket.test", rec.Body.String())
}

func TestWithAuth_MissingToken(t *testing.T) {
	_, h := protected(t, &stubAdmins{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuth_MissingEmailClaim(t *testing.T) {
	g, h := protected(t, &stubAdmins{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, g, map[string]any{"sub": "someone"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuth_UnknownAdmin(t *testing.T) {
	g, h := protected(t, &stubAdmins{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, g, map[string]any{"email": "stranger@agrimarket.test"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWithAuth_LookupFailure(t *testing.T) {
	g, h := protected(t, &stubAdmins{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, g, map[string]any{"email": "admin@agrimarket.test"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
