package registry

import (
	"context"
	"net/http"
	"testing"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/google"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/linkedin"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/meta"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/shopify"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Meta.AppID = "meta-app"
	cfg.Meta.AppSecret = "meta-secret"
	cfg.Google.ClientID = "google-client"
	cfg.Google.ClientSecret = "google-secret"
	cfg.Shopify.APIKey = "shop-key"
	cfg.Shopify.APISecret = "shop-secret"
	return cfg
}

func TestRegistry_Connector(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		conn     *domain.PlatformConnection
		validate func(t *testing.T, platform domain.Platform, c connector.Connector)
	}{
		{
			name: "configured platform with token gets the real connector",
			cfg:  configuredConfig(),
			conn: &domain.PlatformConnection{Platform: domain.PlatformMeta, AccessToken: "tok", AccountID: "123"},
			validate: func(t *testing.T, platform domain.Platform, c connector.Connector) {
				assert.IsType(t, &meta.MetaIntegrator{}, c)
				assert.Equal(t, domain.PlatformMeta, platform)
			},
		},
		{
			name: "google with token",
			cfg:  configuredConfig(),
			conn: &domain.PlatformConnection{Platform: domain.PlatformGoogle, AccessToken: "tok", AccountID: "123-456-7890"},
			validate: func(t *testing.T, platform domain.Platform, c connector.Connector) {
				assert.IsType(t, &google.Connector{}, c)
			},
		},
		{
			name: "shopify with token",
			cfg:  configuredConfig(),
			conn: &domain.PlatformConnection{Platform: domain.PlatformShopify, AccessToken: "tok", AccountID: "demo.myshopify.com"},
			validate: func(t *testing.T, platform domain.Platform, c connector.Connector) {
				assert.IsType(t, &shopify.Connector{}, c)
			},
		},
		{
			name: "missing token falls back to the sample connector",
			cfg:  configuredConfig(),
			conn: &domain.PlatformConnection{Platform: domain.PlatformMeta, AccountID: "123"},
			validate: func(t *testing.T, platform domain.Platform, c connector.Connector) {
				_, real := c.(*meta.MetaIntegrator)
				assert.False(t, real)
				assert.Equal(t, domain.PlatformMeta, platform)
			},
		},
		{
			name: "unconfigured app falls back",
			cfg:  &config.Config{},
			conn: &domain.PlatformConnection{Platform: domain.PlatformLinkedIn, AccessToken: "tok"},
			validate: func(t *testing.T, platform domain.Platform, c connector.Connector) {
				_, real := c.(*linkedin.Connector)
				assert.False(t, real)
				assert.Equal(t, domain.PlatformLinkedIn, platform)
			},
		},
		{
			name: "unknown platform falls back",
			cfg:  configuredConfig(),
			conn: &domain.PlatformConnection{Platform: domain.Platform("myspace"), AccessToken: "tok"},
			validate: func(t *testing.T, platform domain.Platform, c connector.Connector) {
				assert.Equal(t, domain.Platform("myspace"), platform)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.cfg, http.DefaultClient)
			c := r.Connector(tt.conn)
			require.NotNil(t, c)
			tt.validate(t, c.Platform(), c)
		})
	}
}

func TestRegistry_FallbackServesSampleCampaigns(t *testing.T) {
	r := New(&config.Config{}, http.DefaultClient)

	c := r.Connector(&domain.PlatformConnection{Platform: domain.PlatformTikTok, AccessToken: "tok"})
	campaigns, err := c.GetCampaigns(context.Background(), "adv-1")
	require.NoError(t, err)
	require.Len(t, campaigns, 3)
	assert.Equal(t, "tiktok_cp_1", campaigns[0].ExternalID)
}

func TestRegistry_Provider(t *testing.T) {
	r := New(configuredConfig(), http.DefaultClient)

	for _, platform := range domain.SupportedPlatforms {
		p, ok := r.Provider(platform)
		require.True(t, ok, platform)
		assert.Equal(t, platform, p.Platform())
	}

	_, ok := r.Provider(domain.Platform("myspace"))
	assert.False(t, ok)

	linkedinProvider, _ := r.Provider(domain.PlatformLinkedIn)
	assert.False(t, linkedinProvider.Configured())
}
