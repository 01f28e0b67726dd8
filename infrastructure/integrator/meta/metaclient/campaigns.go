package metaclient

import (
	"context"
	"net/url"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	metadomain "github.com/growzzy/growzzy-api/infrastructure/integrator/meta/domain"
)

const (
	campaignFields = "id,name,status,effective_status,objective,daily_budget,lifetime_budget," +
		"insights.date_preset(last_7d){spend,impressions,clicks,actions,action_values}"
	pageSize = "100"
	maxPages = 50
)

type ResponseAdCampaign struct {
	Data   []metadomain.Campaign `json:"data"`
	Paging metadomain.Paging     `json:"paging"`
}

// GetCampaignsByAccountID follows paging.next until the last page.
func (c *MetaClient) GetCampaignsByAccountID(ctx context.Context, accessToken, accountID string) ([]metadomain.Campaign, error) {
	params := url.Values{}
	params.Add("fields", campaignFields)
	params.Add("limit", pageSize)
	params.Add("access_token", accessToken)

	req := connector.Request{
		URL:   c.endpoint(metadomain.ActID(accountID) + "/campaigns"),
		Query: params,
	}

	campaigns := make([]metadomain.Campaign, 0)
	for page := 0; page < maxPages; page++ {
		var response ResponseAdCampaign
		if err := c.do(ctx, req, &response); err != nil {
			return nil, err
		}

		campaigns = append(campaigns, response.Data...)

		if response.Paging.Next == "" {
			break
		}
		req = connector.Request{URL: response.Paging.Next}
	}

	return campaigns, nil
}

// UpdateCampaign posts fields (status, daily_budget) to the campaign node.
func (c *MetaClient) UpdateCampaign(ctx context.Context, accessToken, campaignID string, fields url.Values) error {
	form := url.Values{}
	for k, v := range fields {
		form[k] = v
	}
	form.Set("access_token", accessToken)

	return c.do(ctx, connector.Request{
		Method: "POST",
		URL:    c.endpoint(campaignID),
		Form:   form,
	}, nil)
}
