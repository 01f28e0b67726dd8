package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
)

var Scopes = []string{"read_orders", "read_products", "read_marketing_events"}

var (
	ErrShopMismatch   = errors.New("shop does not match the authorization request")
	ErrInvalidHMAC    = errors.New("invalid callback signature")
	ErrInvalidShop    = errors.New("shop must be a *.myshopify.com domain")
	ErrMissingShopArg = errors.New("missing shop")
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
	return domain.PlatformShopify
}

func (p *Provider) Configured() bool {
	return p.cfg.Shopify.APIKey != "" && p.cfg.Shopify.APISecret != ""
}

func (p *Provider) AuthorizationURL(state *domain.OAuthState) (string, error) {
	shop, ok := domain.NormalizeShopDomain(state.Shop)
	if !ok {
		return "", ErrInvalidShop
	}

	params := url.Values{}
	params.Set("client_id", p.cfg.Shopify.APIKey)
	params.Set("scope", strings.Join(Scopes, ","))
	params.Set("redirect_uri", state.RedirectURI)
	params.Set("state", state.State)

	return fmt.Sprintf("%s?%s", p.client.shopURL(shop, "admin/oauth/authorize"), params.Encode()), nil
}

// ExchangeCode returns an offline token; Shopify tokens do not expire.
func (p *Provider) ExchangeCode(ctx context.Context, code string, state *domain.OAuthState) (*domain.OAuthToken, error) {
	if state.Shop == "" {
		return nil, ErrMissingShopArg
	}

	resp, err := p.client.ExchangeCode(ctx, state.Shop, code)
	if err != nil {
		return nil, err
	}

	return &domain.OAuthToken{
		AccessToken: resp.AccessToken,
		Scopes:      connector.SplitScopes(resp.Scope),
		AccountHint: state.Shop,
	}, nil
}

// FetchIdentity uses the shop domain as the account id.
func (p *Provider) FetchIdentity(ctx context.Context, token *domain.OAuthToken, state *domain.OAuthState) (*domain.AccountIdentity, error) {
	info, err := p.client.GetShop(ctx, token.AccessToken, state.Shop)
	if err != nil {
		return nil, err
	}

	name := info.Name
	if name == "" {
		name = state.Shop
	}
	return &domain.AccountIdentity{ID: state.Shop, Name: name}, nil
}

func (p *Provider) RefreshToken(context.Context, string) (*domain.OAuthToken, error) {
	return nil, connector.ErrOperationNotSupported
}

// VerifyCallback checks the shop against the stored state and validates the
// hmac parameter over the remaining sorted query.
func (p *Provider) VerifyCallback(query url.Values, state *domain.OAuthState) error {
	shop, _ := domain.NormalizeShopDomain(query.Get("shop"))
	if shop == "" || shop != state.Shop {
		return ErrShopMismatch
	}

	if !VerifyHMAC(query, p.cfg.Shopify.APISecret) {
		return ErrInvalidHMAC
	}
	return nil
}

// VerifyHMAC implements Shopify's query signature check.
func VerifyHMAC(query url.Values, secret string) bool {
	received := query.Get("hmac")
	if received == "" || secret == "" {
		return false
	}

	expected, err := hex.DecodeString(received)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, SignQuery(query, secret))
}

// SignQuery computes the HMAC-SHA256 of the query without hmac and signature.
func SignQuery(query url.Values, secret string) []byte {
	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.Join(query[k], ","))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return mac.Sum(nil)
}

var (
	_ connector.OAuthProvider    = (*Provider)(nil)
	_ connector.CallbackVerifier = (*Provider)(nil)
)
