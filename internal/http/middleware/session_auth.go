package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightsmiledental/clinic-platform/internal/auth"
)

type contextKey string

const adminSessionKey contextKey = "adminSession"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "clinic_session"

// RequireSession gates admin routes on a valid session cookie. The
// session is validated against the store on every request; expired or
// destroyed tokens get 401.
func RequireSession(store auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}
			sess, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, auth.ErrNoSession) {
					unauthorized(w)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "session lookup failed"})
				return
			}
			ctx := context.WithValue(r.Context(), adminSessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated admin session if present.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	sess, ok := ctx.Value(adminSessionKey).(*auth.Session)
	return sess, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
