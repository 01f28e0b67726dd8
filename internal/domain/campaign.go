package domain

import (
	"time"

	"github.com/growzzy/growzzy-api/pkg/utils"
)

type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusArchived CampaignStatus = "archived"
	CampaignStatusDeleted  CampaignStatus = "deleted"
	CampaignStatusUnknown  CampaignStatus = "unknown"
)

func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusPaused, CampaignStatusArchived, CampaignStatusDeleted, CampaignStatusUnknown:
		return true
	}
	return false
}

// Metric names usable in threshold triggers.
const (
	MetricSpend       = "spend"
	MetricBudget      = "budget"
	MetricRevenue     = "revenue"
	MetricImpressions = "impressions"
	MetricClicks      = "clicks"
	MetricConversions = "conversions"
	MetricROAS        = "roas"
	MetricCTR         = "ctr"
	MetricCPC         = "cpc"
)

// Campaign is the local mirror of a provider campaign, unique per
// (user, platform, external id).
type Campaign struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Platform     Platform       `json:"platform"`
	ConnectionID string         `json:"connection_id"`
	ExternalID   string         `json:"external_id"`
	Name         string         `json:"name"`
	Status       CampaignStatus `json:"status"`
	Budget       float64        `json:"budget"`
	Spend        float64        `json:"spend"`
	Revenue      float64        `json:"revenue"`
	Impressions  int64          `json:"impressions"`
	Clicks       int64          `json:"clicks"`
	Conversions  int64          `json:"conversions"`
	ROAS         float64        `json:"roas"`
	CTR          float64        `json:"ctr"`
	CPC          float64        `json:"cpc"`
	LastSyncedAt *time.Time     `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PlatformCampaign is the platform-neutral shape a connector returns.
type PlatformCampaign struct {
	ExternalID  string
	Name        string
	Status      CampaignStatus
	Budget      float64
	Spend       float64
	Revenue     float64
	Impressions int64
	Clicks      int64
	Conversions int64
}

func NewCampaignFromPlatform(conn *PlatformConnection, pc PlatformCampaign, syncedAt time.Time) *Campaign {
	c := &Campaign{
		UserID:       conn.UserID,
		Platform:     conn.Platform,
		ConnectionID: conn.ID,
		ExternalID:   pc.ExternalID,
		Name:         pc.Name,
		Status:       pc.Status,
		Budget:       pc.Budget,
		Spend:        pc.Spend,
		Revenue:      pc.Revenue,
		Impressions:  pc.Impressions,
		Clicks:       pc.Clicks,
		Conversions:  pc.Conversions,
		LastSyncedAt: &syncedAt,
	}
	if c.Status == "" {
		c.Status = CampaignStatusUnknown
	}
	c.ComputeDerived()
	return c
}

// ComputeDerived fills ROAS, CTR and CPC. A zero denominator yields zero.
func (c *Campaign) ComputeDerived() {
	c.ROAS, c.CTR, c.CPC = 0, 0, 0

	if c.Spend > 0 {
		c.ROAS = utils.RoundWithTwoDecimalPlace(c.Revenue / c.Spend)
	}
	if c.Impressions > 0 {
		c.CTR = utils.RoundWithTwoDecimalPlace(float64(c.Clicks) / float64(c.Impressions) * 100)
	}
	if c.Clicks > 0 {
		c.CPC = utils.RoundWithTwoDecimalPlace(c.Spend / float64(c.Clicks))
	}
}

// Metric returns the named numeric field and whether the name is known.
func (c *Campaign) Metric(name string) (float64, bool) {
	switch name {
	case MetricSpend:
		return c.Spend, true
	case MetricBudget:
		return c.Budget, true
	case MetricRevenue:
		return c.Revenue, true
	case MetricImpressions:
		return float64(c.Impressions), true
	case MetricClicks:
		return float64(c.Clicks), true
	case MetricConversions:
		return float64(c.Conversions), true
	case MetricROAS:
		return c.ROAS, true
	case MetricCTR:
		return c.CTR, true
	case MetricCPC:
		return c.CPC, true
	default:
		return 0, false
	}
}

type CampaignFilters struct {
	UserID   string
	Platform *Platform
	Status   *CampaignStatus
}

// Creative is the platform-neutral ad creative payload.
type Creative struct {
	Name         string `json:"name" validate:"required"`
	Headline     string `json:"headline" validate:"required"`
	Body         string `json:"body"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
	LinkURL      string `json:"link_url" validate:"required,url"`
	CallToAction string `json:"call_to_action"`
	PageID       string `json:"page_id"`
}

type PublishCreativeResponse struct {
	CampaignID string   `json:"campaign_id"`
	Platform   Platform `json:"platform"`
	ExternalID string   `json:"external_id"`
}
