package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
)

// Client calls the versioned LinkedIn Marketing API (rest/ endpoints).
type Client struct {
	cfg  *config.Config
	http *connector.Client
	now  func() time.Time
}

func NewClient(cfg *config.Config, doer connector.HTTPDoer) *Client {
	return &Client{
		cfg:  cfg,
		http: connector.NewClient(domain.PlatformLinkedIn, doer),
		now:  time.Now,
	}
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s/rest/%s", c.cfg.LinkedIn.APIBaseURL, path)
}

func (c *Client) headers(accessToken string) map[string]string {
	return map[string]string{
		"Authorization":             "Bearer " + accessToken,
		"LinkedIn-Version":          c.cfg.LinkedIn.APIVersion,
		"X-Restli-Protocol-Version": "2.0.0",
	}
}

func (c *Client) ListCampaigns(ctx context.Context, accessToken, accountID string) ([]adCampaign, error) {
	var resp adCampaignsResponse
	err := c.http.Do(ctx, connector.Request{
		URL:     c.url(fmt.Sprintf("adAccounts/%s/adCampaigns", accountID)),
		Query:   url.Values{"q": {"search"}, "pageSize": {"100"}},
		Headers: c.headers(accessToken),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Elements, nil
}

func (c *Client) GetCampaign(ctx context.Context, accessToken, accountID, campaignID string) (*adCampaign, error) {
	var campaign adCampaign
	err := c.http.Do(ctx, connector.Request{
		URL:     c.url(fmt.Sprintf("adAccounts/%s/adCampaigns/%s", accountID, campaignID)),
		Headers: c.headers(accessToken),
	}, &campaign)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Analytics returns last-7-day campaign totals keyed by campaign id.
// Rest.li query syntax must not be form encoded, so the URL is built by hand.
func (c *Client) Analytics(ctx context.Context, accessToken, accountID string) (map[string]*analyticsRow, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -7)

	query := fmt.Sprintf(
		"q=analytics&pivot=CAMPAIGN&timeGranularity=ALL"+
			"&dateRange=(start:(year:%d,month:%d,day:%d),end:(year:%d,month:%d,day:%d))"+
			"&accounts=List(%s)"+
			"&fields=pivotValues,impressions,clicks,costInLocalCurrency,externalWebsiteConversions,conversionValueInLocalCurrency",
		start.Year(), int(start.Month()), start.Day(),
		end.Year(), int(end.Month()), end.Day(),
		url.QueryEscape(accountURNPrefix+accountID),
	)

	var resp analyticsResponse
	err := c.http.Do(ctx, connector.Request{
		URL:     c.url("adAnalytics") + "?" + query,
		Headers: c.headers(accessToken),
	}, &resp)
	if err != nil {
		return nil, err
	}

	byCampaign := make(map[string]*analyticsRow, len(resp.Elements))
	for i := range resp.Elements {
		row := &resp.Elements[i]
		if len(row.PivotValues) == 0 {
			continue
		}
		byCampaign[campaignIDFromURN(row.PivotValues[0])] = row
	}
	return byCampaign, nil
}

// PartialUpdate applies a Rest.li $set patch to a campaign.
func (c *Client) PartialUpdate(ctx context.Context, accessToken, accountID, campaignID string, set map[string]any) error {
	headers := c.headers(accessToken)
	headers["X-RestLi-Method"] = "PARTIAL_UPDATE"

	return c.http.Do(ctx, connector.Request{
		Method:  http.MethodPost,
		URL:     c.url(fmt.Sprintf("adAccounts/%s/adCampaigns/%s", accountID, campaignID)),
		Headers: headers,
		JSON:    map[string]any{"patch": map[string]any{"$set": set}},
	}, nil)
}

func (c *Client) ListAdAccounts(ctx context.Context, accessToken string) ([]adAccount, error) {
	var resp adAccountsResponse
	err := c.http.Do(ctx, connector.Request{
		URL:     c.url("adAccounts"),
		Query:   url.Values{"q": {"search"}, "pageSize": {"10"}},
		Headers: c.headers(accessToken),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Elements, nil
}
