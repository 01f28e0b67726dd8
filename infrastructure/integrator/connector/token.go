package connector

import (
	"strings"
	"time"

	"github.com/growzzy/growzzy-api/internal/domain"
)

// TokenResponse is the standard OAuth 2.0 token endpoint payload.
type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	Scope                 string `json:"scope"`
}

// ToOAuthToken converts the payload; scopes are split on commas and spaces.
func (t TokenResponse) ToOAuthToken(now time.Time) *domain.OAuthToken {
	token := &domain.OAuthToken{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    ExpiresAt(now, t.ExpiresIn),
		Scopes:       SplitScopes(t.Scope),
	}
	return token
}

// ExpiresAt returns nil for tokens without a lifetime.
func ExpiresAt(now time.Time, expiresIn int64) *time.Time {
	if expiresIn <= 0 {
		return nil
	}
	at := now.Add(time.Duration(expiresIn) * time.Second).UTC()
	return &at
}

func SplitScopes(scope string) []string {
	fields := strings.FieldsFunc(scope, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
