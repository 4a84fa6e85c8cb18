package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ayush/notes-app/internal/auth"
)

// RequireAuth is middleware that verifies the bearer token and injects the
// user_id into the request context. A missing token is 401; a token that
// fails verification (bad signature or expired) is 403. The gate never
// touches the stores — the claim carries only the user id.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, `{"error":true,"message":"Not Authenticated"}`, http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					http.Error(w, `{"error":true,"message":"Token Expired"}`, http.StatusForbidden)
					return
				}
				http.Error(w, `{"error":true,"message":"Invalid Token"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
