package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

// mockConnector serves fixed data for platforms that are not configured or
// connections without a token. Every mutation succeeds.
type mockConnector struct {
	platform domain.Platform
}

func NewMock(platform domain.Platform) Connector {
	return &mockConnector{platform: platform}
}

type mockCampaign struct {
	suffix string
	name   string
	status domain.CampaignStatus
	spend  float64
	roas   float64
	budget float64
}

var mockCampaigns = []mockCampaign{
	{suffix: "cp_1", name: "Retargeting Q4", status: domain.CampaignStatusActive, spend: 4500.20, roas: 3.2, budget: 150},
	{suffix: "cp_2", name: "Awareness Brand", status: domain.CampaignStatusActive, spend: 1200.50, roas: 1.5, budget: 50},
	{suffix: "cp_3", name: "Conversion Lookalike", status: domain.CampaignStatusPaused, spend: 8900.00, roas: 0.8, budget: 300},
}

func (m *mockConnector) Platform() domain.Platform {
	return m.platform
}

func (m *mockConnector) GetCampaigns(_ context.Context, accountID string) ([]domain.PlatformCampaign, error) {
	log.L.WithFields(log.Fields{
		"platform":   m.platform,
		"account_id": accountID,
	}).Debug("mock connector: returning sample campaigns")

	campaigns := make([]domain.PlatformCampaign, 0, len(mockCampaigns))
	for _, mc := range mockCampaigns {
		campaigns = append(campaigns, domain.PlatformCampaign{
			ExternalID: fmt.Sprintf("%s_%s", m.platform, mc.suffix),
			Name:       fmt.Sprintf("%s - %s", strings.ToUpper(string(m.platform)), mc.name),
			Status:     mc.status,
			Budget:     mc.budget,
			Spend:      mc.spend,
			Revenue:    utils.RoundWithTwoDecimalPlace(mc.spend * mc.roas),
		})
	}
	return campaigns, nil
}

func (m *mockConnector) PauseCampaign(_ context.Context, externalID string) error {
	log.L.WithFields(log.Fields{"platform": m.platform, "campaign_id": externalID}).Info("mock connector: pause")
	return nil
}

func (m *mockConnector) ResumeCampaign(_ context.Context, externalID string) error {
	log.L.WithFields(log.Fields{"platform": m.platform, "campaign_id": externalID}).Info("mock connector: resume")
	return nil
}

func (m *mockConnector) UpdateBudget(_ context.Context, externalID string, amount float64) error {
	log.L.WithFields(log.Fields{"platform": m.platform, "campaign_id": externalID, "budget": amount}).Info("mock connector: update budget")
	return nil
}

func (m *mockConnector) PublishCreative(_ context.Context, creative domain.Creative, campaignRef string) (string, error) {
	log.L.WithFields(log.Fields{"platform": m.platform, "campaign_id": campaignRef, "creative": creative.Name}).Info("mock connector: publish creative")
	return fmt.Sprintf("%s_creative_%s", m.platform, campaignRef), nil
}
