package domain

import "time"

// PlatformConnection links one user to one ad platform account.
// Tokens never leave the service in JSON.
type PlatformConnection struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Platform     Platform   `json:"platform"`
	AccountID    string     `json:"account_id"`
	AccountName  string     `json:"account_name"`
	AccessToken  string     `json:"-"`
	RefreshToken *string    `json:"-"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scopes       []string   `json:"scopes,omitempty"`
	Active       bool       `json:"active"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (c *PlatformConnection) TokenExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

func (c *PlatformConnection) CanRefresh() bool {
	return c.RefreshToken != nil && *c.RefreshToken != ""
}

// OAuthToken is what a provider returns from a code exchange or refresh.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	Scopes       []string
	// AccountHint carries an account id some providers return with the token.
	AccountHint string
}

type AccountIdentity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DisconnectRequest struct {
	UserID    string
	Platform  Platform
	AccountID string
}
