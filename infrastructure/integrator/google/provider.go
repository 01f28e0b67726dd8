package google

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

var Scopes = []string{
	"https://www.googleapis.com/auth/adwords",
	"https://www.googleapis.com/auth/userinfo.email",
}

type Provider struct {
	cfg  *config.Config
	ads  *AdsClient
	http *connector.Client
	now  func() time.Time
}

func NewProvider(cfg *config.Config, ads *AdsClient, doer connector.HTTPDoer) *Provider {
	return &Provider{
		cfg:  cfg,
		ads:  ads,
		http: connector.NewClient(domain.PlatformGoogle, doer),
		now:  time.Now,
	}
}

func (p *Provider) Platform() domain.Platform {
	return domain.PlatformGoogle
}

func (p *Provider) Configured() bool {
	return p.cfg.Google.ClientID != "" && p.cfg.Google.ClientSecret != ""
}

func (p *Provider) AuthorizationURL(state *domain.OAuthState) (string, error) {
	params := url.Values{}
	params.Set("client_id", p.cfg.Google.ClientID)
	params.Set("redirect_uri", state.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(Scopes, " "))
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("state", state.State)

	return p.cfg.Google.AuthURL + "?" + params.Encode(), nil
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
	form.Set("client_id", p.cfg.Google.ClientID)
	form.Set("client_secret", p.cfg.Google.ClientSecret)

	var resp connector.TokenResponse
	err := p.http.Do(ctx, connector.Request{
		Method: http.MethodPost,
		URL:    p.cfg.Google.TokenURL,
		Form:   form,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return resp.ToOAuthToken(p.now()), nil
}

// FetchIdentity uses the first accessible Ads customer as the account and
// the Google login email as its name.
func (p *Provider) FetchIdentity(ctx context.Context, token *domain.OAuthToken, _ *domain.OAuthState) (*domain.AccountIdentity, error) {
	var info userInfo
	err := p.http.Do(ctx, connector.Request{
		URL:     p.cfg.Google.UserInfoURL,
		Headers: map[string]string{"Authorization": "Bearer " + token.AccessToken},
	}, &info)
	if err != nil {
		return nil, err
	}

	name := info.Email
	if name == "" {
		name = info.Name
	}

	customers, err := p.ads.ListAccessibleCustomers(ctx, token.AccessToken)
	if err != nil {
		log.L.WithError(err).Warn("google: could not list accessible customers")
	}
	if len(customers) > 0 {
		return &domain.AccountIdentity{ID: customers[0], Name: name}, nil
	}

	if info.ID == "" {
		return nil, connector.ErrNoAccount
	}
	return &domain.AccountIdentity{ID: info.ID, Name: name}, nil
}

var _ connector.OAuthProvider = (*Provider)(nil)
