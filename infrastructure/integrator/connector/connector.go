// Package connector defines the contract every ad platform integration
// implements, plus the shared HTTP plumbing they use.
package connector

import (
	"context"
	"errors"
	"net/url"

	"github.com/growzzy/growzzy-api/internal/domain"
)

var (
	ErrOperationNotSupported = errors.New("operation not supported by platform")
	ErrMissingAccessToken    = errors.New("connection has no access token")
	ErrNoAccount             = errors.New("no ad account available for this login")
)

// Connector talks to one platform on behalf of one connection.
//
//go:generate mockgen -source=connector.go -destination=mocks/connector_mock.go -package=mocks
type Connector interface {
	Platform() domain.Platform
	GetCampaigns(ctx context.Context, accountID string) ([]domain.PlatformCampaign, error)
	PauseCampaign(ctx context.Context, externalID string) error
	ResumeCampaign(ctx context.Context, externalID string) error
	UpdateBudget(ctx context.Context, externalID string, amount float64) error
	PublishCreative(ctx context.Context, creative domain.Creative, campaignRef string) (string, error)
}

// OAuthProvider covers the authorization code flow of one platform.
type OAuthProvider interface {
	Platform() domain.Platform
	Configured() bool
	AuthorizationURL(state *domain.OAuthState) (string, error)
	ExchangeCode(ctx context.Context, code string, state *domain.OAuthState) (*domain.OAuthToken, error)
	FetchIdentity(ctx context.Context, token *domain.OAuthToken, state *domain.OAuthState) (*domain.AccountIdentity, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.OAuthToken, error)
}

// CallbackVerifier is implemented by providers that sign their callbacks.
type CallbackVerifier interface {
	VerifyCallback(query url.Values, state *domain.OAuthState) error
}

// Registry resolves platform implementations.
type Registry interface {
	Connector(conn *domain.PlatformConnection) Connector
	Provider(platform domain.Platform) (OAuthProvider, bool)
}
