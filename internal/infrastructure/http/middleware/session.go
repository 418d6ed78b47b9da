package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// SessionCookie names the cookie that keys carts and editors
	SessionCookie = "session_id"
	// AdminTokenHeader carries the admin token when one is configured
	AdminTokenHeader = "X-Admin-Token"
)

type sessionKey struct{}

var errAdminToken = errors.New("missing or invalid admin token")

// Session makes sure every request carries a session id, issuing a cookie
// on first contact.
func Session() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.id", id))

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// WithSessionID stores the session id in ctx
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id set by Session
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// AdminToken rejects requests without the configured token. An empty
// token leaves the admin routes open.
func AdminToken(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				response.Error(w, http.StatusUnauthorized, errAdminToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
