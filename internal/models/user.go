package models

// Auth provider constants
const (
	ProviderGoogle = "google"
	ProviderLocal  = "local"
)

// User is an authenticated operator of the CRM. Identity comes from the
// external OAuth provider; only the session snapshot lives here.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Avatar   string `json:"avatar,omitempty"`
}
