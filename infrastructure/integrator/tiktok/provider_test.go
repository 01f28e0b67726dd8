package tiktok

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	log.SetupTestLogger()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.TikTok.AppID = "tt-app"
	cfg.TikTok.AppSecret = "tt-secret"
	cfg.TikTok.AuthURL = "https://business-api.tiktok.com/portal/auth"
	cfg.TikTok.APIBaseURL = server.URL + "/open_api/v1.3"

	return NewProvider(cfg, NewClient(cfg, server.Client()))
}

func TestProvider_AuthorizationURL(t *testing.T) {
	provider := newTestProvider(t, http.NotFoundHandler())

	redirectURI := "https://app.growzzy.test/api/oauth/tiktok/callback"
	authURL, err := provider.AuthorizationURL(&domain.OAuthState{State: "state-tt", RedirectURI: redirectURI})
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "business-api.tiktok.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "tt-app", query.Get("app_id"))
	assert.Equal(t, "state-tt", query.Get("state"))
	assert.Equal(t, redirectURI, query.Get("redirect_uri"))
}

func TestProvider_ExchangeCode(t *testing.T) {
	tests := []struct {
		name     string
		response string
		validate func(t *testing.T, token *domain.OAuthToken, err error)
	}{
		{
			name:     "first advertiser becomes the account hint",
			response: `{"code": 0, "message": "OK", "data": {"access_token": "tt-token", "advertiser_ids": ["adv-9", "adv-10"], "scope": [4, 5]}}`,
			validate: func(t *testing.T, token *domain.OAuthToken, err error) {
				require.NoError(t, err)
				assert.Equal(t, "tt-token", token.AccessToken)
				assert.Equal(t, "adv-9", token.AccountHint)
				assert.Nil(t, token.ExpiresAt)
				assert.Empty(t, token.RefreshToken)
			},
		},
		{
			name:     "error envelope with http 200",
			response: `{"code": 40105, "message": "auth_code is invalid", "data": {}}`,
			validate: func(t *testing.T, token *domain.OAuthToken, err error) {
				var apiErr *connector.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Contains(t, apiErr.Body, "40105")
				assert.Nil(t, token)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/open_api/v1.3/oauth2/access_token/", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)

				raw, err := io.ReadAll(r.Body)
				require.NoError(t, err)

				var body map[string]string
				require.NoError(t, jsoniter.Unmarshal(raw, &body))
				assert.Equal(t, map[string]string{
					"app_id":    "tt-app",
					"secret":    "tt-secret",
					"auth_code": "code-tt",
				}, body)

				w.Write([]byte(tt.response))
			}))

			token, err := provider.ExchangeCode(context.Background(), "code-tt", &domain.OAuthState{})
			tt.validate(t, token, err)
		})
	}
}

func TestProvider_FetchIdentity(t *testing.T) {
	tests := []struct {
		name     string
		token    *domain.OAuthToken
		handler  http.HandlerFunc
		validate func(t *testing.T, identity *domain.AccountIdentity, err error)
	}{
		{
			name:  "advertiser name",
			token: &domain.OAuthToken{AccessToken: "tt-token", AccountHint: "adv-9"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/open_api/v1.3/advertiser/info/", r.URL.Path)
				assert.Equal(t, "tt-token", r.Header.Get("Access-Token"))
				assert.Equal(t, `["adv-9"]`, r.URL.Query().Get("advertiser_ids"))
				w.Write([]byte(`{"code": 0, "data": {"list": [{"advertiser_id": "adv-9", "name": "Growzzy Shop"}]}}`))
			},
			validate: func(t *testing.T, identity *domain.AccountIdentity, err error) {
				require.NoError(t, err)
				assert.Equal(t, &domain.AccountIdentity{ID: "adv-9", Name: "Growzzy Shop"}, identity)
			},
		},
		{
			name:  "advertiser lookup failure keeps the id",
			token: &domain.OAuthToken{AccessToken: "tt-token", AccountHint: "adv-9"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			validate: func(t *testing.T, identity *domain.AccountIdentity, err error) {
				require.NoError(t, err)
				assert.Equal(t, &domain.AccountIdentity{ID: "adv-9", Name: "adv-9"}, identity)
			},
		},
		{
			name:  "no advertiser granted",
			token: &domain.OAuthToken{AccessToken: "tt-token"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				t.Error("advertiser lookup must not run without an advertiser id")
			},
			validate: func(t *testing.T, identity *domain.AccountIdentity, err error) {
				assert.ErrorIs(t, err, connector.ErrNoAccount)
				assert.Nil(t, identity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := newTestProvider(t, tt.handler).FetchIdentity(context.Background(), tt.token, nil)
			tt.validate(t, identity, err)
		})
	}
}
