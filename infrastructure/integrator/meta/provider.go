package meta

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/meta/metaclient"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

var Scopes = []string{"ads_management", "ads_read", "business_management"}

type Provider struct {
	cfg    *config.Config
	client metaclient.Client
	now    func() time.Time
}

func NewProvider(cfg *config.Config, client metaclient.Client) *Provider {
	return &Provider{
		cfg:    cfg,
		client: client,
		now:    time.Now,
	}
}

func (p *Provider) Platform() domain.Platform {
	return domain.PlatformMeta
}

func (p *Provider) Configured() bool {
	return p.cfg.Meta.AppID != "" && p.cfg.Meta.AppSecret != ""
}

func (p *Provider) AuthorizationURL(state *domain.OAuthState) (string, error) {
	params := url.Values{}
	params.Set("client_id", p.cfg.Meta.AppID)
	params.Set("redirect_uri", state.RedirectURI)
	params.Set("state", state.State)
	params.Set("scope", strings.Join(Scopes, ","))
	params.Set("response_type", "code")

	return fmt.Sprintf("%s/%s/dialog/oauth?%s", p.cfg.Meta.DialogURL, p.cfg.Meta.Version, params.Encode()), nil
}

// ExchangeCode trades the code and then upgrades to a long-lived token.
// A failed upgrade keeps the short-lived token.
func (p *Provider) ExchangeCode(ctx context.Context, code string, state *domain.OAuthState) (*domain.OAuthToken, error) {
	short, err := p.client.ExchangeCode(ctx, code, state.RedirectURI)
	if err != nil {
		return nil, err
	}

	tokenResp := short
	long, err := p.client.GetLongLivedToken(ctx, short.AccessToken)
	if err != nil {
		log.L.WithError(err).Warn("meta: keeping short-lived token")
	} else {
		tokenResp = long
	}

	return &domain.OAuthToken{
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   connector.ExpiresAt(p.now(), tokenResp.ExpiresIn),
		Scopes:      Scopes,
	}, nil
}

// FetchIdentity picks the first ad account, falling back to the user node.
func (p *Provider) FetchIdentity(ctx context.Context, token *domain.OAuthToken, _ *domain.OAuthState) (*domain.AccountIdentity, error) {
	accounts, err := p.client.GetAdAccounts(ctx, token.AccessToken)
	if err == nil && len(accounts) > 0 {
		return &domain.AccountIdentity{
			ID:   accounts[0].NumericID(),
			Name: accounts[0].Name,
		}, nil
	}
	if err != nil {
		log.L.WithError(err).Warn("meta: could not list ad accounts, falling back to /me")
	}

	me, err := p.client.GetMe(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	return &domain.AccountIdentity{ID: me.ID, Name: me.Name}, nil
}

// RefreshToken is unsupported: Graph user tokens have no refresh token.
func (p *Provider) RefreshToken(context.Context, string) (*domain.OAuthToken, error) {
	return nil, connector.ErrOperationNotSupported
}

var _ connector.OAuthProvider = (*Provider)(nil)
