package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts exactly one token value.
type stubVerifier struct {
	token   string
	subject string
	role    domain.Role
}

func (s *stubVerifier) VerifyToken(token string) (string, domain.Role, error) {
	if token == s.token {
		return s.subject, s.role, nil
	}
	return "", "", errors.New("invalid token")
}

// identityProbe records the identity seen by the downstream handler.
func identityProbe(got *Identity, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	verifier := &stubVerifier{token: "good", subject: "alice", role: domain.RoleAdmin}

	var identity Identity
	var authenticated bool
	handler := AuthMiddleware(verifier)(identityProbe(&identity, &authenticated))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, authenticated)
	assert.Equal(t, "alice", identity.Subject)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
}

func TestAuthMiddleware_AnonymousPassThrough(t *testing.T) {
	verifier := &stubVerifier{token: "good", subject: "alice", role: domain.RoleUser}

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "invalid token", header: "Bearer bad"},
		{name: "missing token", header: "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var identity Identity
			var authenticated bool
			handler := AuthMiddleware(verifier)(identityProbe(&identity, &authenticated))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			// The request proceeds, but no identity is forged.
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.False(t, authenticated)
			assert.Empty(t, identity.Subject)
		})
	}
}

func TestAuthMiddleware_CaseInsensitiveScheme(t *testing.T) {
	verifier := &stubVerifier{token: "good", subject: "alice", role: domain.RoleUser}

	var identity Identity
	var authenticated bool
	handler := AuthMiddleware(verifier)(identityProbe(&identity, &authenticated))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, authenticated)
	assert.Equal(t, "alice", identity.Subject)
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{Subject: "alice", Role: domain.RoleUser}))
		rec := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(domain.RoleAdmin)(next)

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("insufficient role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{Subject: "bob", Role: domain.RoleUser}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("sufficient role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{Subject: "alice", Role: domain.RoleAdmin}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
