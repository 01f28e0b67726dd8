package google

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

const campaignsQuery = `SELECT campaign.id, campaign.name, campaign.status, campaign_budget.amount_micros,
metrics.cost_micros, metrics.impressions, metrics.clicks, metrics.conversions, metrics.conversions_value
FROM campaign
WHERE segments.date DURING LAST_7_DAYS AND campaign.status != 'REMOVED'`

type Connector struct {
	client      *AdsClient
	accessToken string
	customerID  string
}

func NewConnector(client *AdsClient, accessToken, customerID string) *Connector {
	return &Connector{
		client:      client,
		accessToken: accessToken,
		customerID:  NormalizeCustomerID(customerID),
	}
}

func (c *Connector) Platform() domain.Platform {
	return domain.PlatformGoogle
}

func (c *Connector) GetCampaigns(ctx context.Context, accountID string) ([]domain.PlatformCampaign, error) {
	rows, err := c.client.Search(ctx, c.accessToken, accountID, campaignsQuery)
	if err != nil {
		return nil, err
	}

	campaigns := make([]domain.PlatformCampaign, 0, len(rows))
	for _, row := range rows {
		campaigns = append(campaigns, row.toPlatformCampaign())
	}

	log.L.WithFields(log.Fields{
		"customer_id": accountID,
		"campaigns":   len(campaigns),
	}).Debug("google: campaigns retrieved")

	return campaigns, nil
}

func (c *Connector) PauseCampaign(ctx context.Context, externalID string) error {
	return c.setStatus(ctx, externalID, "PAUSED")
}

func (c *Connector) ResumeCampaign(ctx context.Context, externalID string) error {
	return c.setStatus(ctx, externalID, "ENABLED")
}

func (c *Connector) campaignResource(externalID string) string {
	return fmt.Sprintf("customers/%s/campaigns/%s", c.customerID, externalID)
}

func (c *Connector) setStatus(ctx context.Context, externalID, status string) error {
	_, err := c.client.Mutate(ctx, c.accessToken, c.customerID, "campaigns", mutateOperation{
		Update: map[string]string{
			"resourceName": c.campaignResource(externalID),
			"status":       status,
		},
		UpdateMask: "status",
	})
	return err
}

// UpdateBudget changes the amount of the budget attached to the campaign.
func (c *Connector) UpdateBudget(ctx context.Context, externalID string, amount float64) error {
	if _, err := strconv.ParseInt(externalID, 10, 64); err != nil {
		return fmt.Errorf("invalid google campaign id %q", externalID)
	}

	rows, err := c.client.Search(ctx, c.accessToken, c.customerID,
		"SELECT campaign.campaign_budget FROM campaign WHERE campaign.id = "+externalID)
	if err != nil {
		return err
	}
	if len(rows) == 0 || rows[0].Campaign.CampaignBudget == "" {
		return errors.New("campaign budget not found")
	}

	_, err = c.client.Mutate(ctx, c.accessToken, c.customerID, "campaignBudgets", mutateOperation{
		Update: map[string]string{
			"resourceName": rows[0].Campaign.CampaignBudget,
			"amountMicros": strconv.FormatInt(int64(amount*1_000_000), 10),
		},
		UpdateMask: "amount_micros",
	})
	return err
}

// PublishCreative adds a paused responsive search ad to the campaign's
// first ad group and returns its resource name.
func (c *Connector) PublishCreative(ctx context.Context, creative domain.Creative, campaignRef string) (string, error) {
	if _, err := strconv.ParseInt(campaignRef, 10, 64); err != nil {
		return "", fmt.Errorf("invalid google campaign id %q", campaignRef)
	}

	rows, err := c.client.Search(ctx, c.accessToken, c.customerID,
		"SELECT ad_group.resource_name FROM ad_group WHERE campaign.id = "+campaignRef+" LIMIT 1")
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errors.New("campaign has no ad groups")
	}

	descriptions := []map[string]string{{"text": creative.Body}}
	if creative.Body == "" {
		descriptions = []map[string]string{{"text": creative.Headline}}
	}

	resp, err := c.client.Mutate(ctx, c.accessToken, c.customerID, "adGroupAds", mutateOperation{
		Create: map[string]any{
			"adGroup": rows[0].AdGroup.ResourceName,
			"status":  "PAUSED",
			"ad": map[string]any{
				"name":      creative.Name,
				"finalUrls": []string{creative.LinkURL},
				"responsiveSearchAd": map[string]any{
					"headlines":    []map[string]string{{"text": creative.Headline}},
					"descriptions": descriptions,
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", errors.New("google returned no ad resource")
	}

	return resp.Results[0].ResourceName, nil
}

var _ connector.Connector = (*Connector)(nil)
