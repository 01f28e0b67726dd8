package domain

import (
	"net/url"
	"time"
)

const DefaultOAuthStateTTL = 10 * time.Minute

// OAuthState correlates an authorization request with its callback.
type OAuthState struct {
	State       string    `json:"state"`
	Platform    Platform  `json:"platform"`
	UserID      string    `json:"user_id"`
	Shop        string    `json:"shop,omitempty"`
	RedirectURI string    `json:"redirect_uri"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *OAuthState) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type OAuthStartRequest struct {
	Platform string `json:"platform" validate:"required"`
	Shop     string `json:"shop"`
}

type OAuthStartResponse struct {
	AuthURL   string    `json:"auth_url"`
	State     string    `json:"state"`
	Platform  Platform  `json:"platform"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OAuthCallback holds the query parameters a provider sends back.
type OAuthCallback struct {
	Code             string
	State            string
	Shop             string
	Error            string
	ErrorDescription string
	Query            url.Values
}

func NewOAuthCallback(query url.Values) OAuthCallback {
	return OAuthCallback{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Shop:             query.Get("shop"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
		Query:            query,
	}
}
