package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// sessionCookie identifies the visitor's cart across page loads.
const sessionCookie = "storefront_session"

// contextKey is an unexported type for context keys in this package. Using a
// custom type prevents collisions with keys from other packages that might
// use the same underlying string value.
type contextKey string

const contextKeySession contextKey = "session"

// WithSession assigns a session cookie on first visit and stores the session
// ID in the request context. The ID doubles as the cart's persistence key.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), contextKeySession, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID extracts the session ID set by WithSession. Comma-ok keeps a
// missing value from panicking when handlers run without the middleware.
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(contextKeySession).(string)
	return id
}
