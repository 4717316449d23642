package auth

import (
	"context"
	"net/http"

	"github.com/yuvinraja/crm-backend/internal/models"
)

type contextKey struct{}

var userKey contextKey

// UserFromContext returns the session user attached by Middleware, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// Middleware resolves the session cookie into a request-scoped user. It
// never rejects: endpoints that require a session check for the user
// themselves, and /auth/user reports absence as unauthenticated.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.Resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}
