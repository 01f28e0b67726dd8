package shopify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
)

type marketingEvent struct {
	ID               int64  `json:"id"`
	EventType        string `json:"event_type"`
	MarketingChannel string `json:"marketing_channel"`
	Description      string `json:"description"`
	UTMCampaign      string `json:"utm_campaign"`
	Budget           string `json:"budget"`
	Currency         string `json:"currency"`
	StartedAt        string `json:"started_at"`
	EndedAt          string `json:"ended_at"`
}

type shopInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MyshopifyDomain string `json:"myshopify_domain"`
}

type Client struct {
	cfg  *config.Config
	http *connector.Client
}

func NewClient(cfg *config.Config, doer connector.HTTPDoer) *Client {
	return &Client{
		cfg:  cfg,
		http: connector.NewClient(domain.PlatformShopify, doer),
	}
}

func (c *Client) shopURL(shop, path string) string {
	return fmt.Sprintf("%s://%s/%s", c.cfg.Shopify.Scheme, shop, path)
}

func (c *Client) adminURL(shop, resource string) string {
	return c.shopURL(shop, fmt.Sprintf("admin/api/%s/%s", c.cfg.Shopify.APIVersion, resource))
}

func authHeader(accessToken string) map[string]string {
	return map[string]string{"X-Shopify-Access-Token": accessToken}
}

func (c *Client) ExchangeCode(ctx context.Context, shop, code string) (*connector.TokenResponse, error) {
	var resp connector.TokenResponse
	err := c.http.Do(ctx, connector.Request{
		Method: http.MethodPost,
		URL:    c.shopURL(shop, "admin/oauth/access_token"),
		JSON: map[string]string{
			"client_id":     c.cfg.Shopify.APIKey,
			"client_secret": c.cfg.Shopify.APISecret,
			"code":          code,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetShop(ctx context.Context, accessToken, shop string) (*shopInfo, error) {
	var resp struct {
		Shop shopInfo `json:"shop"`
	}
	err := c.http.Do(ctx, connector.Request{
		URL:     c.adminURL(shop, "shop.json"),
		Headers: authHeader(accessToken),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Shop, nil
}

func (c *Client) ListMarketingEvents(ctx context.Context, accessToken, shop string) ([]marketingEvent, error) {
	var resp struct {
		MarketingEvents []marketingEvent `json:"marketing_events"`
	}
	err := c.http.Do(ctx, connector.Request{
		URL:     c.adminURL(shop, "marketing_events.json"),
		Headers: authHeader(accessToken),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.MarketingEvents, nil
}
