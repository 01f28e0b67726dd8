package metaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/pkg/log"
)

// TokenResponse is what the Graph token endpoint returns.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *MetaClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	params := url.Values{}
	params.Add("client_id", c.Cfg.Meta.AppID)
	params.Add("client_secret", c.Cfg.Meta.AppSecret)
	params.Add("redirect_uri", redirectURI)
	params.Add("code", code)

	return c.requestToken(ctx, params)
}

// GetLongLivedToken trades a short-lived user token for a ~60 day one.
func (c *MetaClient) GetLongLivedToken(ctx context.Context, shortLivedToken string) (*TokenResponse, error) {
	if shortLivedToken == "" {
		return nil, errors.New("access token must not be empty")
	}

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", c.Cfg.Meta.AppID)
	params.Add("client_secret", c.Cfg.Meta.AppSecret)
	params.Add("fb_exchange_token", shortLivedToken)

	tokenResp, err := c.requestToken(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain long-lived token: %w", err)
	}

	log.L.Infof("Long-lived meta token obtained. Expires in %s.", FormatDuration(tokenResp.ExpiresIn))

	return tokenResp, nil
}

func (c *MetaClient) requestToken(ctx context.Context, params url.Values) (*TokenResponse, error) {
	var tokenResp TokenResponse
	err := c.do(ctx, connector.Request{
		Method: http.MethodPost,
		URL:    c.endpoint("oauth/access_token"),
		Form:   params,
	}, &tokenResp)
	if err != nil {
		return nil, err
	}

	if tokenResp.AccessToken == "" {
		return nil, errors.New("token endpoint returned an empty access token")
	}

	return &tokenResp, nil
}

// FormatDuration renders a lifetime in seconds for logs.
func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	days := duration / (24 * time.Hour)
	hours := (duration % (24 * time.Hour)) / time.Hour
	minutes := (duration % time.Hour) / time.Minute

	return fmt.Sprintf("%d days, %d hours and %d minutes", days, hours, minutes)
}
