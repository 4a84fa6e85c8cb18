package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/notes-app/internal/auth"
)

func newGate(ttl time.Duration) (*auth.TokenService, http.Handler, *string) {
	tokens := auth.NewTokenService("gate-secret", ttl)
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value("user_id").(string)
		w.WriteHeader(http.StatusOK)
	})
	return tokens, RequireAuth(tokens)(next), &seen
}

func TestRequireAuth_MissingToken(t *testing.T) {
	for _, header := range []string{"", "Bearer ", "Basic abc", "token-without-scheme"} {
		_, gate, seen := newGate(time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/notes/get-all-notes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Empty(t, *seen)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	_, gate, seen := newGate(time.Hour)

	// signed with a different secret
	foreign := auth.NewTokenService("other-secret", time.Hour)
	tok, err := foreign.Issue("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, *seen)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	tokens, gate, seen := newGate(-1 * time.Second)

	tok, err := tokens.Issue("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, *seen)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens, gate, seen := newGate(time.Hour)

	tok, err := tokens.Issue("user-42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", *seen)
}
