package shopify

import (
	"context"
	"strconv"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

// Connector mirrors marketing events as read-only campaigns.
type Connector struct {
	client      *Client
	accessToken string
	now         func() time.Time
}

func NewConnector(client *Client, accessToken string) *Connector {
	return &Connector{
		client:      client,
		accessToken: accessToken,
		now:         time.Now,
	}
}

func (c *Connector) Platform() domain.Platform {
	return domain.PlatformShopify
}

// GetCampaigns takes the shop domain as the account id.
func (c *Connector) GetCampaigns(ctx context.Context, accountID string) ([]domain.PlatformCampaign, error) {
	events, err := c.client.ListMarketingEvents(ctx, c.accessToken, accountID)
	if err != nil {
		return nil, err
	}

	now := c.now()
	campaigns := make([]domain.PlatformCampaign, 0, len(events))
	for _, ev := range events {
		campaigns = append(campaigns, domain.PlatformCampaign{
			ExternalID: strconv.FormatInt(ev.ID, 10),
			Name:       eventName(ev),
			Status:     eventStatus(ev, now),
			Budget:     utils.RoundWithTwoDecimalPlace(utils.ParseFloat(ev.Budget)),
		})
	}
	return campaigns, nil
}

func eventName(ev marketingEvent) string {
	switch {
	case ev.UTMCampaign != "":
		return ev.UTMCampaign
	case ev.Description != "":
		return ev.Description
	default:
		return ev.EventType
	}
}

func eventStatus(ev marketingEvent, now time.Time) domain.CampaignStatus {
	if ev.EndedAt == "" {
		return domain.CampaignStatusActive
	}
	ended, err := time.Parse(time.RFC3339, ev.EndedAt)
	if err != nil || ended.After(now) {
		return domain.CampaignStatusActive
	}
	return domain.CampaignStatusArchived
}

func (c *Connector) PauseCampaign(context.Context, string) error {
	return connector.ErrOperationNotSupported
}

func (c *Connector) ResumeCampaign(context.Context, string) error {
	return connector.ErrOperationNotSupported
}

func (c *Connector) UpdateBudget(context.Context, string, float64) error {
	return connector.ErrOperationNotSupported
}

func (c *Connector) PublishCreative(context.Context, domain.Creative, string) (string, error) {
	return "", connector.ErrOperationNotSupported
}

var _ connector.Connector = (*Connector)(nil)
