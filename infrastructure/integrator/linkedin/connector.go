package linkedin

import (
	"context"
	"fmt"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

type Connector struct {
	client      *Client
	accessToken string
	accountID   string
}

func NewConnector(client *Client, accessToken, accountID string) *Connector {
	return &Connector{
		client:      client,
		accessToken: accessToken,
		accountID:   accountID,
	}
}

func (c *Connector) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

// GetCampaigns joins campaigns with analytics. Missing analytics only zero
// the metrics.
func (c *Connector) GetCampaigns(ctx context.Context, accountID string) ([]domain.PlatformCampaign, error) {
	campaigns, err := c.client.ListCampaigns(ctx, c.accessToken, accountID)
	if err != nil {
		return nil, err
	}

	stats, err := c.client.Analytics(ctx, c.accessToken, accountID)
	if err != nil {
		log.L.WithFields(log.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Warn("linkedin: analytics unavailable, syncing campaigns without metrics")
		stats = nil
	}

	result := make([]domain.PlatformCampaign, 0, len(campaigns))
	for _, campaign := range campaigns {
		result = append(result, campaign.toPlatformCampaign(stats[fmt.Sprint(campaign.ID)]))
	}
	return result, nil
}

func (c *Connector) PauseCampaign(ctx context.Context, externalID string) error {
	return c.client.PartialUpdate(ctx, c.accessToken, c.accountID, externalID, map[string]any{"status": "PAUSED"})
}

func (c *Connector) ResumeCampaign(ctx context.Context, externalID string) error {
	return c.client.PartialUpdate(ctx, c.accessToken, c.accountID, externalID, map[string]any{"status": "ACTIVE"})
}

// UpdateBudget keeps the campaign's existing currency.
func (c *Connector) UpdateBudget(ctx context.Context, externalID string, amount float64) error {
	campaign, err := c.client.GetCampaign(ctx, c.accessToken, c.accountID, externalID)
	if err != nil {
		return err
	}

	currency := "USD"
	if campaign.DailyBudget != nil && campaign.DailyBudget.CurrencyCode != "" {
		currency = campaign.DailyBudget.CurrencyCode
	}

	return c.client.PartialUpdate(ctx, c.accessToken, c.accountID, externalID, map[string]any{
		"dailyBudget": money{Amount: fmt.Sprintf("%.2f", amount), CurrencyCode: currency},
	})
}

func (c *Connector) PublishCreative(context.Context, domain.Creative, string) (string, error) {
	return "", connector.ErrOperationNotSupported
}

var _ connector.Connector = (*Connector)(nil)
