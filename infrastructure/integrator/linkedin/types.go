package linkedin

import (
	"strconv"
	"strings"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

const (
	campaignURNPrefix = "urn:li:sponsoredCampaign:"
	accountURNPrefix  = "urn:li:sponsoredAccount:"
)

type money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type adCampaign struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	DailyBudget *money `json:"dailyBudget,omitempty"`
	TotalBudget *money `json:"totalBudget,omitempty"`
}

type adCampaignsResponse struct {
	Elements []adCampaign `json:"elements"`
}

type adAccount struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type adAccountsResponse struct {
	Elements []adAccount `json:"elements"`
}

type analyticsRow struct {
	PivotValues                    []string `json:"pivotValues"`
	Impressions                    int64    `json:"impressions"`
	Clicks                         int64    `json:"clicks"`
	CostInLocalCurrency            string   `json:"costInLocalCurrency"`
	ExternalWebsiteConversions     int64    `json:"externalWebsiteConversions"`
	ConversionValueInLocalCurrency string   `json:"conversionValueInLocalCurrency"`
}

type analyticsResponse struct {
	Elements []analyticsRow `json:"elements"`
}

func (c adCampaign) toPlatformCampaign(stats *analyticsRow) domain.PlatformCampaign {
	pc := domain.PlatformCampaign{
		ExternalID: strconv.FormatInt(c.ID, 10),
		Name:       c.Name,
		Status:     mapStatus(c.Status),
	}

	switch {
	case c.DailyBudget != nil:
		pc.Budget = utils.RoundWithTwoDecimalPlace(utils.ParseFloat(c.DailyBudget.Amount))
	case c.TotalBudget != nil:
		pc.Budget = utils.RoundWithTwoDecimalPlace(utils.ParseFloat(c.TotalBudget.Amount))
	}

	if stats != nil {
		pc.Spend = utils.RoundWithTwoDecimalPlace(utils.ParseFloat(stats.CostInLocalCurrency))
		pc.Revenue = utils.RoundWithTwoDecimalPlace(utils.ParseFloat(stats.ConversionValueInLocalCurrency))
		pc.Impressions = stats.Impressions
		pc.Clicks = stats.Clicks
		pc.Conversions = stats.ExternalWebsiteConversions
	}

	return pc
}

func mapStatus(status string) domain.CampaignStatus {
	switch status {
	case "ACTIVE":
		return domain.CampaignStatusActive
	case "PAUSED", "DRAFT":
		return domain.CampaignStatusPaused
	case "ARCHIVED", "COMPLETED", "CANCELED":
		return domain.CampaignStatusArchived
	case "REMOVED":
		return domain.CampaignStatusDeleted
	default:
		return domain.CampaignStatusUnknown
	}
}

func campaignIDFromURN(urn string) string {
	return strings.TrimPrefix(urn, campaignURNPrefix)
}
