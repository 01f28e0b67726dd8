package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaign_ComputeDerived(t *testing.T) {
	tests := []struct {
		name     string
		campaign Campaign
		roas     float64
		ctr      float64
		cpc      float64
	}{
		{
			name:     "all denominators present",
			campaign: Campaign{Spend: 1250.5, Revenue: 4500, Impressions: 45000, Clicks: 1230},
			roas:     3.6,
			ctr:      2.73,
			cpc:      1.02,
		},
		{
			name:     "zero spend",
			campaign: Campaign{Revenue: 100, Impressions: 1000, Clicks: 10},
			roas:     0,
			ctr:      1,
			cpc:      0,
		},
		{
			name:     "no impressions or clicks",
			campaign: Campaign{Spend: 300, Revenue: 150},
			roas:     0.5,
			ctr:      0,
			cpc:      0,
		},
		{
			name:     "stale values are reset",
			campaign: Campaign{ROAS: 9, CTR: 9, CPC: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.campaign
			c.ComputeDerived()
			assert.Equal(t, tt.roas, c.ROAS)
			assert.Equal(t, tt.ctr, c.CTR)
			assert.Equal(t, tt.cpc, c.CPC)
		})
	}
}

func TestNewCampaignFromPlatform(t *testing.T) {
	syncedAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	conn := &PlatformConnection{ID: "conn-1", UserID: "user-1", Platform: PlatformTikTok}

	c := NewCampaignFromPlatform(conn, PlatformCampaign{
		ExternalID: "tiktok_cp_1",
		Name:       "Spark Ads",
		Spend:      100,
		Revenue:    250,
		Clicks:     50,
	}, syncedAt)

	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, "conn-1", c.ConnectionID)
	assert.Equal(t, PlatformTikTok, c.Platform)
	assert.Equal(t, CampaignStatusUnknown, c.Status)
	assert.Equal(t, 2.5, c.ROAS)
	assert.Equal(t, 2.0, c.CPC)
	require.NotNil(t, c.LastSyncedAt)
	assert.Equal(t, syncedAt, *c.LastSyncedAt)
}

func TestCampaign_Metric(t *testing.T) {
	c := &Campaign{Spend: 10, Budget: 20, Impressions: 300, Clicks: 4, Conversions: 1, ROAS: 1.5}

	v, ok := c.Metric(MetricImpressions)
	assert.True(t, ok)
	assert.Equal(t, 300.0, v)

	v, ok = c.Metric(MetricROAS)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = c.Metric("frequency")
	assert.False(t, ok)
}
