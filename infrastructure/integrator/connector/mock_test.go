package connector

import (
	"context"
	"testing"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockConnector_GetCampaigns(t *testing.T) {
	c := NewMock(domain.PlatformLinkedIn)

	campaigns, err := c.GetCampaigns(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, campaigns, 3)

	assert.Equal(t, "linkedin_cp_1", campaigns[0].ExternalID)
	assert.Equal(t, "LINKEDIN - Retargeting Q4", campaigns[0].Name)
	assert.Equal(t, domain.CampaignStatusActive, campaigns[0].Status)
	assert.Equal(t, 4500.20, campaigns[0].Spend)
	assert.Equal(t, 150.0, campaigns[0].Budget)
	assert.Equal(t, 14400.64, campaigns[0].Revenue)

	assert.Equal(t, "linkedin_cp_2", campaigns[1].ExternalID)
	assert.Equal(t, 1800.75, campaigns[1].Revenue)

	assert.Equal(t, "linkedin_cp_3", campaigns[2].ExternalID)
	assert.Equal(t, domain.CampaignStatusPaused, campaigns[2].Status)
	assert.Equal(t, 7120.0, campaigns[2].Revenue)

	again, err := c.GetCampaigns(context.Background(), "acc-2")
	require.NoError(t, err)
	assert.Equal(t, campaigns, again)
}

func TestMockConnector_MutationsSucceed(t *testing.T) {
	ctx := context.Background()
	c := NewMock(domain.PlatformMeta)

	assert.NoError(t, c.PauseCampaign(ctx, "meta_cp_1"))
	assert.NoError(t, c.ResumeCampaign(ctx, "meta_cp_1"))
	assert.NoError(t, c.UpdateBudget(ctx, "meta_cp_1", 99))

	id, err := c.PublishCreative(ctx, domain.Creative{Name: "Spring"}, "meta_cp_1")
	require.NoError(t, err)
	assert.Equal(t, "meta_creative_meta_cp_1", id)
	assert.Equal(t, domain.PlatformMeta, c.Platform())
}
