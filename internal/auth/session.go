// Package auth implements cookie-based session handling. Identity comes
// from an external OAuth provider; this package only issues, verifies and
// clears the session that follows. The Manager is an explicit dependency of
// the handlers that need it rather than ambient global state.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yuvinraja/crm-backend/internal/models"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "crm_session"

// ErrNoSession means the request carries no valid session.
var ErrNoSession = errors.New("no active session")

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Avatar   string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager creates a session manager. secure controls the cookie's Secure
// flag and should be true behind TLS.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Issue sets a session cookie for the given user on the response.
func (m *Manager) Issue(w http.ResponseWriter, user *models.User) error {
	now := time.Now()
	claims := sessionClaims{
		Name:     user.Name,
		Email:    user.Email,
		Provider: user.Provider,
		Avatar:   user.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Resolve extracts and verifies the session from a request. Returns
// ErrNoSession when the cookie is missing, expired or tampered with.
func (m *Manager) Resolve(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	return &models.User{
		ID:       claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		Provider: claims.Provider,
		Avatar:   claims.Avatar,
	}, nil
}

// Clear removes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
