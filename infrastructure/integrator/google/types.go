package google

import (
	"strings"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

type searchStreamBatch struct {
	Results []searchRow `json:"results"`
}

type searchRow struct {
	Campaign       campaignRow `json:"campaign"`
	CampaignBudget budgetRow   `json:"campaignBudget"`
	Metrics        metricsRow  `json:"metrics"`
	AdGroup        adGroupRow  `json:"adGroup"`
}

type campaignRow struct {
	ResourceName   string `json:"resourceName"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	CampaignBudget string `json:"campaignBudget"`
}

type budgetRow struct {
	ResourceName string `json:"resourceName"`
	AmountMicros string `json:"amountMicros"`
}

// Int64 metrics arrive as strings, doubles as numbers.
type metricsRow struct {
	CostMicros       string  `json:"costMicros"`
	Impressions      string  `json:"impressions"`
	Clicks           string  `json:"clicks"`
	Conversions      float64 `json:"conversions"`
	ConversionsValue float64 `json:"conversionsValue"`
}

type adGroupRow struct {
	ResourceName string `json:"resourceName"`
}

func (r searchRow) toPlatformCampaign() domain.PlatformCampaign {
	return domain.PlatformCampaign{
		ExternalID:  r.Campaign.ID,
		Name:        r.Campaign.Name,
		Status:      mapStatus(r.Campaign.Status),
		Budget:      utils.MicrosToUnits(utils.ParseInt(r.CampaignBudget.AmountMicros)),
		Spend:       utils.MicrosToUnits(utils.ParseInt(r.Metrics.CostMicros)),
		Revenue:     utils.RoundWithTwoDecimalPlace(r.Metrics.ConversionsValue),
		Impressions: utils.ParseInt(r.Metrics.Impressions),
		Clicks:      utils.ParseInt(r.Metrics.Clicks),
		Conversions: int64(r.Metrics.Conversions + 0.5),
	}
}

func mapStatus(status string) domain.CampaignStatus {
	switch status {
	case "ENABLED":
		return domain.CampaignStatusActive
	case "PAUSED":
		return domain.CampaignStatusPaused
	case "REMOVED":
		return domain.CampaignStatusDeleted
	default:
		return domain.CampaignStatusUnknown
	}
}

type mutateRequest struct {
	Operations []mutateOperation `json:"operations"`
}

type mutateOperation struct {
	Update     any    `json:"update,omitempty"`
	Create     any    `json:"create,omitempty"`
	UpdateMask string `json:"updateMask,omitempty"`
}

type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resourceName"`
	} `json:"results"`
}

type accessibleCustomers struct {
	ResourceNames []string `json:"resourceNames"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NormalizeCustomerID drops the dashes shown in the Ads UI.
func NormalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(id), "customers/"), "-", "")
}
