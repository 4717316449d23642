package handler

import (
	"log/slog"
	"net/http"

	"github.com/yuvinraja/crm-backend/internal/auth"
	"github.com/yuvinraja/crm-backend/internal/models"
)

// AuthHandler handles session HTTP requests
type AuthHandler struct {
	sessions *auth.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *auth.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// userResponse is the /auth/user payload. An absent session is a normal
// 200 with success=false, not an error.
type userResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
}

// CurrentUser handles GET /auth/user
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusOK, userResponse{Success: false})
		return
	}

	respondJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
