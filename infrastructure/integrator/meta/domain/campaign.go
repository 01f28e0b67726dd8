package metadomain

import (
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

type Campaign struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Status          string        `json:"status"`
	EffectiveStatus string        `json:"effective_status"`
	Objective       string        `json:"objective"`
	DailyBudget     string        `json:"daily_budget"`
	LifetimeBudget  string        `json:"lifetime_budget"`
	Insights        *InsightsEdge `json:"insights,omitempty"`
}

type InsightsEdge struct {
	Data []CampaignInsight `json:"data"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next"`
}

type CampaignInsight struct {
	Spend        string   `json:"spend"`
	Impressions  string   `json:"impressions"`
	Clicks       string   `json:"clicks"`
	Actions      []Action `json:"actions"`
	ActionValues []Action `json:"action_values"`
	DateStart    string   `json:"date_start"`
	DateStop     string   `json:"date_stop"`
}

// GetResult counts the conversions for the objective, falling back to purchases.
func (c *CampaignInsight) GetResult(objective string) int64 {
	if actionType, ok := MetaObjectiveToActionType[objective]; ok {
		if v, found := findAction(c.Actions, actionType); found {
			return utils.ParseInt(v)
		}
	}
	for _, actionType := range purchaseActionTypes {
		if v, found := findAction(c.Actions, actionType); found {
			return utils.ParseInt(v)
		}
	}
	return 0
}

// GetRevenue reads the purchase value reported by the pixel.
func (c *CampaignInsight) GetRevenue() float64 {
	for _, actionType := range purchaseActionTypes {
		if v, found := findAction(c.ActionValues, actionType); found {
			return utils.RoundWithTwoDecimalPlace(utils.ParseFloat(v))
		}
	}
	return 0
}

func findAction(actions []Action, actionType string) (string, bool) {
	for _, a := range actions {
		if a.ActionType == actionType {
			return a.Value, true
		}
	}
	return "", false
}

// ToPlatformCampaign flattens a campaign and its first insights row.
// Budgets come in cents.
func (c *Campaign) ToPlatformCampaign() domain.PlatformCampaign {
	pc := domain.PlatformCampaign{
		ExternalID: c.ID,
		Name:       c.Name,
		Status:     MapStatus(c.Status),
	}

	budget := c.DailyBudget
	if budget == "" {
		budget = c.LifetimeBudget
	}
	pc.Budget = utils.CentsToUnits(utils.ParseInt(budget))

	if c.Insights != nil && len(c.Insights.Data) > 0 {
		insight := c.Insights.Data[0]
		pc.Spend = utils.RoundWithTwoDecimalPlace(utils.ParseFloat(insight.Spend))
		pc.Impressions = utils.ParseInt(insight.Impressions)
		pc.Clicks = utils.ParseInt(insight.Clicks)
		pc.Conversions = insight.GetResult(c.Objective)
		pc.Revenue = insight.GetRevenue()
	}

	return pc
}

func MapStatus(status string) domain.CampaignStatus {
	switch status {
	case "ACTIVE":
		return domain.CampaignStatusActive
	case "PAUSED":
		return domain.CampaignStatusPaused
	case "ARCHIVED":
		return domain.CampaignStatusArchived
	case "DELETED":
		return domain.CampaignStatusDeleted
	default:
		return domain.CampaignStatusUnknown
	}
}
