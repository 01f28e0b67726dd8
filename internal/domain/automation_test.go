package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutomation_TargetCampaignID(t *testing.T) {
	a := &Automation{TriggerConfig: TriggerConfig{CampaignID: "watched"}}
	assert.Equal(t, "watched", a.TargetCampaignID())

	a.ActionConfig.CampaignID = "acted-on"
	assert.Equal(t, "acted-on", a.TargetCampaignID())
}

func TestPlatformConnection_TokenExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	refresh := "r"
	empty := ""

	assert.False(t, (&PlatformConnection{}).TokenExpired(now))
	assert.True(t, (&PlatformConnection{ExpiresAt: &past}).TokenExpired(now))
	assert.False(t, (&PlatformConnection{ExpiresAt: &future}).TokenExpired(now))

	assert.True(t, (&PlatformConnection{RefreshToken: &refresh}).CanRefresh())
	assert.False(t, (&PlatformConnection{RefreshToken: &empty}).CanRefresh())
	assert.False(t, (&PlatformConnection{}).CanRefresh())
}
