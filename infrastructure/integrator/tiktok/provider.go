package tiktok

import (
	"context"
	"net/url"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

type Provider struct {
	cfg    *config.Config
	client *Client
}

func NewProvider(cfg *config.Config, client *Client) *Provider {
	return &Provider{
		cfg:    cfg,
		client: client,
	}
}

func (p *Provider) Platform() domain.Platform {
	return domain.PlatformTikTok
}

func (p *Provider) Configured() bool {
	return p.cfg.TikTok.AppID != "" && p.cfg.TikTok.AppSecret != ""
}

func (p *Provider) AuthorizationURL(state *domain.OAuthState) (string, error) {
	params := url.Values{}
	params.Set("app_id", p.cfg.TikTok.AppID)
	params.Set("state", state.State)
	params.Set("redirect_uri", state.RedirectURI)

	return p.cfg.TikTok.AuthURL + "?" + params.Encode(), nil
}

// ExchangeCode returns a non-expiring token. The first advertiser the user
// granted is carried as the account hint.
func (p *Provider) ExchangeCode(ctx context.Context, code string, _ *domain.OAuthState) (*domain.OAuthToken, error) {
	data, err := p.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	token := &domain.OAuthToken{AccessToken: data.AccessToken}
	if len(data.AdvertiserIDs) > 0 {
		token.AccountHint = data.AdvertiserIDs[0]
	}
	return token, nil
}

func (p *Provider) FetchIdentity(ctx context.Context, token *domain.OAuthToken, _ *domain.OAuthState) (*domain.AccountIdentity, error) {
	if token.AccountHint == "" {
		return nil, connector.ErrNoAccount
	}

	adv, err := p.client.GetAdvertiser(ctx, token.AccessToken, token.AccountHint)
	if err != nil {
		log.L.WithError(err).Warn("tiktok: advertiser info unavailable")
		return &domain.AccountIdentity{ID: token.AccountHint, Name: token.AccountHint}, nil
	}

	name := adv.Name
	if name == "" {
		name = token.AccountHint
	}
	return &domain.AccountIdentity{ID: token.AccountHint, Name: name}, nil
}

func (p *Provider) RefreshToken(context.Context, string) (*domain.OAuthToken, error) {
	return nil, connector.ErrOperationNotSupported
}

var _ connector.OAuthProvider = (*Provider)(nil)
