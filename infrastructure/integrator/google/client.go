package google

import (
	"context"
	"fmt"
	"net/http"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
)

// AdsClient calls the Google Ads REST interface.
type AdsClient struct {
	cfg  *config.Config
	http *connector.Client
}

func NewAdsClient(cfg *config.Config, doer connector.HTTPDoer) *AdsClient {
	return &AdsClient{
		cfg:  cfg,
		http: connector.NewClient(domain.PlatformGoogle, doer),
	}
}

func (c *AdsClient) url(path string) string {
	return fmt.Sprintf("%s/%s/%s", c.cfg.Google.AdsBaseURL, c.cfg.Google.AdsVersion, path)
}

func (c *AdsClient) headers(accessToken string) map[string]string {
	h := map[string]string{
		"Authorization":   "Bearer " + accessToken,
		"developer-token": c.cfg.Google.DeveloperToken,
	}
	if c.cfg.Google.LoginCustomerID != "" {
		h["login-customer-id"] = NormalizeCustomerID(c.cfg.Google.LoginCustomerID)
	}
	return h
}

// Search runs a GAQL query through searchStream and flattens the batches.
func (c *AdsClient) Search(ctx context.Context, accessToken, customerID, query string) ([]searchRow, error) {
	var batches []searchStreamBatch
	err := c.http.Do(ctx, connector.Request{
		Method:  http.MethodPost,
		URL:     c.url(fmt.Sprintf("customers/%s/googleAds:searchStream", NormalizeCustomerID(customerID))),
		Headers: c.headers(accessToken),
		JSON:    map[string]string{"query": query},
	}, &batches)
	if err != nil {
		return nil, err
	}

	rows := make([]searchRow, 0)
	for _, b := range batches {
		rows = append(rows, b.Results...)
	}
	return rows, nil
}

// Mutate posts operations to a customers/{id}/{service}:mutate endpoint.
func (c *AdsClient) Mutate(ctx context.Context, accessToken, customerID, service string, ops ...mutateOperation) (*mutateResponse, error) {
	var resp mutateResponse
	err := c.http.Do(ctx, connector.Request{
		Method:  http.MethodPost,
		URL:     c.url(fmt.Sprintf("customers/%s/%s:mutate", NormalizeCustomerID(customerID), service)),
		Headers: c.headers(accessToken),
		JSON:    mutateRequest{Operations: ops},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *AdsClient) ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error) {
	var resp accessibleCustomers
	err := c.http.Do(ctx, connector.Request{
		URL:     c.url("customers:listAccessibleCustomers"),
		Headers: c.headers(accessToken),
	}, &resp)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.ResourceNames))
	for _, rn := range resp.ResourceNames {
		ids = append(ids, NormalizeCustomerID(rn))
	}
	return ids, nil
}
