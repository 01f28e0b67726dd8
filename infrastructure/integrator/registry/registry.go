// Package registry wires the platform integrations and decides, per
// connection, whether a real connector or the sample one is used.
package registry

import (
	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/google"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/linkedin"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/meta"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/meta/metaclient"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/shopify"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/tiktok"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

type Registry struct {
	providers map[domain.Platform]connector.OAuthProvider

	meta     metaclient.Client
	google   *google.AdsClient
	linkedin *linkedin.Client
	tiktok   *tiktok.Client
	shopify  *shopify.Client
}

func New(cfg *config.Config, doer connector.HTTPDoer) *Registry {
	r := &Registry{
		meta:     metaclient.NewClient(cfg, doer),
		google:   google.NewAdsClient(cfg, doer),
		linkedin: linkedin.NewClient(cfg, doer),
		tiktok:   tiktok.NewClient(cfg, doer),
		shopify:  shopify.NewClient(cfg, doer),
	}

	r.providers = map[domain.Platform]connector.OAuthProvider{
		domain.PlatformMeta:     meta.NewProvider(cfg, r.meta),
		domain.PlatformGoogle:   google.NewProvider(cfg, r.google, doer),
		domain.PlatformLinkedIn: linkedin.NewProvider(cfg, r.linkedin, doer),
		domain.PlatformTikTok:   tiktok.NewProvider(cfg, r.tiktok),
		domain.PlatformShopify:  shopify.NewProvider(cfg, r.shopify),
	}

	for platform, provider := range r.providers {
		if !provider.Configured() {
			log.L.WithField("platform", platform).Info("platform credentials not configured, using sample connector")
		}
	}

	return r
}

func (r *Registry) Provider(platform domain.Platform) (connector.OAuthProvider, bool) {
	p, ok := r.providers[platform]
	return p, ok
}

// Connector falls back to the sample connector when the connection has no
// token, the platform is unknown or its app credentials are missing.
func (r *Registry) Connector(conn *domain.PlatformConnection) connector.Connector {
	if conn == nil {
		return connector.NewMock("")
	}

	provider, ok := r.providers[conn.Platform]
	if !ok || !provider.Configured() || conn.AccessToken == "" {
		return connector.NewMock(conn.Platform)
	}

	switch conn.Platform {
	case domain.PlatformMeta:
		return meta.New(r.meta, conn.AccessToken, conn.AccountID)
	case domain.PlatformGoogle:
		return google.NewConnector(r.google, conn.AccessToken, conn.AccountID)
	case domain.PlatformLinkedIn:
		return linkedin.NewConnector(r.linkedin, conn.AccessToken, conn.AccountID)
	case domain.PlatformTikTok:
		return tiktok.NewConnector(r.tiktok, conn.AccessToken, conn.AccountID)
	case domain.PlatformShopify:
		return shopify.NewConnector(r.shopify, conn.AccessToken)
	default:
		return connector.NewMock(conn.Platform)
	}
}

var _ connector.Registry = (*Registry)(nil)
