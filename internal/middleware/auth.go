package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/auth"
)

// SessionCookie is the name of the cookie carrying the access token.
const SessionCookie = "joyroute_access"

type ctxKey int

const userIDKey ctxKey = 0

// NewAuthenticator returns a middleware that requires a valid access token on
// every request it wraps. The token is read from the SessionCookie cookie or,
// failing that, from an "Authorization: Bearer" header. On success the user ID
// is stored in the request context for UserID to retrieve; otherwise the
// request is rejected with 401 before reaching the handler.
func NewAuthenticator(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				unauthorized(w)
				return
			}

			claims, err := tokens.Parse(token, auth.PurposeAccess)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's ID from the request context.
// The second return is false when the request did not pass NewAuthenticator.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithUserID returns a context carrying the given user ID. Intended for
// handler tests that bypass the authenticator.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required"}`))
}
