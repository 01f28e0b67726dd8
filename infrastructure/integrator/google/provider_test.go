package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedirectURI = "https://app.growzzy.test/api/oauth/google/callback"

var providerNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestProvider(t *testing.T, mux *http.ServeMux) *Provider {
	t.Helper()
	log.SetupTestLogger()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Google.ClientID = "google-client"
	cfg.Google.ClientSecret = "google-secret"
	cfg.Google.DeveloperToken = "dev-token"
	cfg.Google.AuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	cfg.Google.TokenURL = server.URL + "/token"
	cfg.Google.UserInfoURL = server.URL + "/userinfo"
	cfg.Google.AdsBaseURL = server.URL
	cfg.Google.AdsVersion = "v18"

	provider := NewProvider(cfg, NewAdsClient(cfg, server.Client()), server.Client())
	provider.now = func() time.Time { return providerNow }
	return provider
}

func TestProvider_AuthorizationURL(t *testing.T) {
	provider := newTestProvider(t, http.NewServeMux())

	authURL, err := provider.AuthorizationURL(&domain.OAuthState{State: "state-g", RedirectURI: testRedirectURI})
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "google-client", query.Get("client_id"))
	assert.Equal(t, testRedirectURI, query.Get("redirect_uri"))
	assert.Equal(t, "state-g", query.Get("state"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "offline", query.Get("access_type"))
	assert.Equal(t, "consent", query.Get("prompt"))
	assert.Contains(t, query.Get("scope"), "https://www.googleapis.com/auth/adwords")
}

func TestProvider_TokenRequests(t *testing.T) {
	tests := []struct {
		name         string
		run          func(p *Provider) (*domain.OAuthToken, error)
		expectedForm map[string]string
	}{
		{
			name: "exchange reuses the redirect uri",
			run: func(p *Provider) (*domain.OAuthToken, error) {
				return p.ExchangeCode(context.Background(), "code-g", &domain.OAuthState{RedirectURI: testRedirectURI})
			},
			expectedForm: map[string]string{
				"grant_type":   "authorization_code",
				"code":         "code-g",
				"redirect_uri": testRedirectURI,
			},
		},
		{
			name: "refresh",
			run: func(p *Provider) (*domain.OAuthToken, error) {
				return p.RefreshToken(context.Background(), "refresh-g")
			},
			expectedForm: map[string]string{
				"grant_type":    "refresh_token",
				"refresh_token": "refresh-g",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "google-client", r.PostForm.Get("client_id"))
				assert.Equal(t, "google-secret", r.PostForm.Get("client_secret"))
				for k, v := range tt.expectedForm {
					assert.Equal(t, v, r.PostForm.Get(k), k)
				}
				w.Write([]byte(`{"access_token": "ya29.token", "refresh_token": "1//refresh", "expires_in": 3599, "scope": "openid email"}`))
			})

			token, err := tt.run(newTestProvider(t, mux))
			require.NoError(t, err)
			assert.Equal(t, "ya29.token", token.AccessToken)
			assert.Equal(t, "1//refresh", token.RefreshToken)
			require.NotNil(t, token.ExpiresAt)
			assert.Equal(t, providerNow.Add(3599*time.Second), *token.ExpiresAt)
			assert.Equal(t, []string{"openid", "email"}, token.Scopes)
		})
	}
}

func TestProvider_FetchIdentity(t *testing.T) {
	tests := []struct {
		name      string
		customers func(w http.ResponseWriter)
		expected  *domain.AccountIdentity
		err       error
	}{
		{
			name: "first accessible customer",
			customers: func(w http.ResponseWriter) {
				w.Write([]byte(`{"resourceNames": ["customers/1234567890", "customers/555"]}`))
			},
			expected: &domain.AccountIdentity{ID: "1234567890", Name: "ads@growzzy.test"},
		},
		{
			name: "falls back to the google user id",
			customers: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": {"status": "PERMISSION_DENIED"}}`))
			},
			expected: &domain.AccountIdentity{ID: "g-42", Name: "ads@growzzy.test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer ya29.token", r.Header.Get("Authorization"))
				w.Write([]byte(`{"id": "g-42", "email": "ads@growzzy.test", "name": "Ads Team"}`))
			})
			mux.HandleFunc("/v18/customers:listAccessibleCustomers", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "dev-token", r.Header.Get("developer-token"))
				tt.customers(w)
			})

			identity, err := newTestProvider(t, mux).FetchIdentity(context.Background(), &domain.OAuthToken{AccessToken: "ya29.token"}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, identity)
		})
	}
}

func TestProvider_FetchIdentity_NoAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email": "ads@growzzy.test"}`))
	})
	mux.HandleFunc("/v18/customers:listAccessibleCustomers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resourceNames": []}`))
	})

	_, err := newTestProvider(t, mux).FetchIdentity(context.Background(), &domain.OAuthToken{AccessToken: "ya29.token"}, nil)
	assert.ErrorIs(t, err, connector.ErrNoAccount)
}
