package tiktok

import (
	"context"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

type Connector struct {
	client       *Client
	accessToken  string
	advertiserID string
}

func NewConnector(client *Client, accessToken, advertiserID string) *Connector {
	return &Connector{
		client:       client,
		accessToken:  accessToken,
		advertiserID: advertiserID,
	}
}

func (c *Connector) Platform() domain.Platform {
	return domain.PlatformTikTok
}

func (c *Connector) GetCampaigns(ctx context.Context, accountID string) ([]domain.PlatformCampaign, error) {
	campaigns, err := c.client.ListCampaigns(ctx, c.accessToken, accountID)
	if err != nil {
		return nil, err
	}

	report, err := c.client.Report(ctx, c.accessToken, accountID)
	if err != nil {
		log.L.WithFields(log.Fields{
			"advertiser_id": accountID,
			"error":         err.Error(),
		}).Warn("tiktok: report unavailable, syncing campaigns without metrics")
	}

	result := make([]domain.PlatformCampaign, 0, len(campaigns))
	for _, cp := range campaigns {
		pc := domain.PlatformCampaign{
			ExternalID: cp.CampaignID,
			Name:       cp.CampaignName,
			Status:     mapStatus(cp.OperationStatus),
			Budget:     utils.RoundWithTwoDecimalPlace(cp.Budget),
		}
		if row, ok := report[cp.CampaignID]; ok {
			pc.Spend = utils.RoundWithTwoDecimalPlace(utils.ParseFloat(row.Metrics.Spend))
			pc.Impressions = utils.ParseInt(row.Metrics.Impressions)
			pc.Clicks = utils.ParseInt(row.Metrics.Clicks)
			pc.Conversions = utils.ParseInt(row.Metrics.Conversion)
			pc.Revenue = utils.RoundWithTwoDecimalPlace(pc.Spend * utils.ParseFloat(row.Metrics.CompletePaymentRoas))
		}
		result = append(result, pc)
	}
	return result, nil
}

func mapStatus(status string) domain.CampaignStatus {
	switch status {
	case "ENABLE":
		return domain.CampaignStatusActive
	case "DISABLE":
		return domain.CampaignStatusPaused
	case "DELETE":
		return domain.CampaignStatusDeleted
	default:
		return domain.CampaignStatusUnknown
	}
}

func (c *Connector) PauseCampaign(ctx context.Context, externalID string) error {
	return c.client.UpdateStatus(ctx, c.accessToken, c.advertiserID, externalID, "DISABLE")
}

func (c *Connector) ResumeCampaign(ctx context.Context, externalID string) error {
	return c.client.UpdateStatus(ctx, c.accessToken, c.advertiserID, externalID, "ENABLE")
}

func (c *Connector) UpdateBudget(ctx context.Context, externalID string, amount float64) error {
	return c.client.UpdateBudget(ctx, c.accessToken, c.advertiserID, externalID, amount)
}

func (c *Connector) PublishCreative(context.Context, domain.Creative, string) (string, error) {
	return "", connector.ErrOperationNotSupported
}

var _ connector.Connector = (*Connector)(nil)
