package meta

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/meta/metaclient"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

// MetaIntegrator is the Graph API connector for one connection.
type MetaIntegrator struct {
	Client      metaclient.Client
	accessToken string
	accountID   string
}

func New(client metaclient.Client, accessToken, accountID string) *MetaIntegrator {
	return &MetaIntegrator{
		Client:      client,
		accessToken: accessToken,
		accountID:   accountID,
	}
}

func (s *MetaIntegrator) Platform() domain.Platform {
	return domain.PlatformMeta
}

func (s *MetaIntegrator) GetCampaigns(ctx context.Context, accountID string) ([]domain.PlatformCampaign, error) {
	campaigns, err := s.Client.GetCampaignsByAccountID(ctx, s.accessToken, accountID)
	if err != nil {
		log.L.WithFields(log.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("meta: failed to get campaigns")
		return nil, err
	}

	result := make([]domain.PlatformCampaign, 0, len(campaigns))
	for i := range campaigns {
		result = append(result, campaigns[i].ToPlatformCampaign())
	}

	log.L.WithFields(log.Fields{
		"account_id": accountID,
		"campaigns":  len(result),
	}).Debug("meta: campaigns retrieved")

	return result, nil
}

func (s *MetaIntegrator) PauseCampaign(ctx context.Context, externalID string) error {
	return s.setStatus(ctx, externalID, "PAUSED")
}

func (s *MetaIntegrator) ResumeCampaign(ctx context.Context, externalID string) error {
	return s.setStatus(ctx, externalID, "ACTIVE")
}

func (s *MetaIntegrator) setStatus(ctx context.Context, externalID, status string) error {
	fields := url.Values{}
	fields.Set("status", status)
	return s.Client.UpdateCampaign(ctx, s.accessToken, externalID, fields)
}

// UpdateBudget sets the daily budget; Graph expects minor units.
func (s *MetaIntegrator) UpdateBudget(ctx context.Context, externalID string, amount float64) error {
	fields := url.Values{}
	fields.Set("daily_budget", strconv.FormatInt(int64(amount*100+0.5), 10))
	return s.Client.UpdateCampaign(ctx, s.accessToken, externalID, fields)
}

// PublishCreative creates the creative and a paused ad in the campaign's
// first ad set. It returns the ad id.
func (s *MetaIntegrator) PublishCreative(ctx context.Context, creative domain.Creative, campaignRef string) (string, error) {
	if creative.PageID == "" {
		return "", fmt.Errorf("meta creatives require a page_id")
	}

	adSetID, err := s.Client.GetFirstAdSetID(ctx, s.accessToken, campaignRef)
	if err != nil {
		return "", err
	}

	creativeID, err := s.Client.CreateAdCreative(ctx, s.accessToken, s.accountID, creative)
	if err != nil {
		return "", err
	}

	adID, err := s.Client.CreateAd(ctx, s.accessToken, s.accountID, adSetID, creativeID, creative.Name)
	if err != nil {
		return "", err
	}

	log.L.WithFields(log.Fields{
		"campaign_id": campaignRef,
		"creative_id": creativeID,
		"ad_id":       adID,
	}).Info("meta: creative published")

	return adID, nil
}

var _ connector.Connector = (*MetaIntegrator)(nil)
