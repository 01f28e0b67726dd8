package linkedin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
)

var Scopes = []string{"r_ads", "r_ads_reporting", "rw_ads", "r_basicprofile"}

type Provider struct {
	cfg    *config.Config
	client *Client
	http   *connector.Client
	now    func() time.Time
}

func NewProvider(cfg *config.Config, client *Client, doer connector.HTTPDoer) *Provider {
	return &Provider{
		cfg:    cfg,
		client: client,
		http:   connector.NewClient(domain.PlatformLinkedIn, doer),
		now:    time.Now,
	}
}

func (p *Provider) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

func (p *Provider) Configured() bool {
	return p.cfg.LinkedIn.ClientID != "" && p.cfg.LinkedIn.ClientSecret != ""
}

func (p *Provider) AuthorizationURL(state *domain.OAuthState) (string, error) {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", p.cfg.LinkedIn.ClientID)
	params.Set("redirect_uri", state.RedirectURI)
	params.Set("state", state.State)
	params.Set("scope", strings.Join(Scopes, " "))

	return p.cfg.LinkedIn.AuthURL + "?" + params.Encode(), nil
}

func (p *Provider) ExchangeCode(ctx context.Context, code string, state *domain.OAuthState) (*domain.OAuthToken, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", state.RedirectURI)
	return p.token(ctx, form)
}

func (p *Provider) RefreshToken(ctx context.Context, refreshToken string) (*domain.OAuthToken, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return p.token(ctx, form)
}

func (p *Provider) token(ctx context.Context, form url.Values) (*domain.OAuthToken, error) {
	form.Set("client_id", p.cfg.LinkedIn.ClientID)
	form.Set("client_secret", p.cfg.LinkedIn.ClientSecret)

	var resp connector.TokenResponse
	err := p.http.Do(ctx, connector.Request{
		Method: http.MethodPost,
		URL:    p.cfg.LinkedIn.TokenURL,
		Form:   form,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return resp.ToOAuthToken(p.now()), nil
}

func (p *Provider) FetchIdentity(ctx context.Context, token *domain.OAuthToken, _ *domain.OAuthState) (*domain.AccountIdentity, error) {
	accounts, err := p.client.ListAdAccounts(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, connector.ErrNoAccount
	}

	return &domain.AccountIdentity{
		ID:   strconv.FormatInt(accounts[0].ID, 10),
		Name: accounts[0].Name,
	}, nil
}

var _ connector.OAuthProvider = (*Provider)(nil)
