package domain

import "time"

type TriggerType string

const (
	TriggerThreshold TriggerType = "threshold_based"
	TriggerTime      TriggerType = "time_based"
)

type ActionType string

const (
	ActionPauseCampaign  ActionType = "pause_campaign"
	ActionUpdateBudget   ActionType = "update_budget"
	ActionSendAlert      ActionType = "send_alert"
	ActionGenerateReport ActionType = "generate_report"
)

type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionFailed  ExecutionStatus = "failed"
)

// TriggerConfig is stored as jsonb. Threshold triggers use Metric, Operator,
// Value and CampaignID; time triggers use Schedule ("9-17", "22-6").
type TriggerConfig struct {
	Metric     string   `json:"metric,omitempty"`
	Operator   string   `json:"operator,omitempty"`
	Value      float64  `json:"value,omitempty"`
	CampaignID string   `json:"campaign_id,omitempty"`
	Schedule   []string `json:"schedule,omitempty"`
	Timezone   string   `json:"timezone,omitempty"`
}

type ActionConfig struct {
	CampaignID string   `json:"campaign_id,omitempty"`
	NewBudget  *float64 `json:"new_budget,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Message    string   `json:"message,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

type Automation struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Name           string        `json:"name"`
	TriggerType    TriggerType   `json:"trigger_type"`
	TriggerConfig  TriggerConfig `json:"trigger_config"`
	ActionType     ActionType    `json:"action_type"`
	ActionConfig   ActionConfig  `json:"action_config"`
	Active         bool          `json:"active"`
	LastExecutedAt *time.Time    `json:"last_executed_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TargetCampaignID is the campaign an action applies to, falling back to the
// campaign watched by the trigger.
func (a *Automation) TargetCampaignID() string {
	if a.ActionConfig.CampaignID != "" {
		return a.ActionConfig.CampaignID
	}
	return a.TriggerConfig.CampaignID
}

// AutomationExecutionLog is append-only.
type AutomationExecutionLog struct {
	ID           string          `json:"id"`
	AutomationID string          `json:"automation_id"`
	UserID       string          `json:"user_id"`
	ActionType   ActionType      `json:"action_type"`
	Triggered    bool            `json:"triggered"`
	Status       ExecutionStatus `json:"status"`
	Message      string          `json:"message"`
	Error        *string         `json:"error,omitempty"`
	ExecutedAt   time.Time       `json:"executed_at"`
}

type AutomationResult struct {
	AutomationID string          `json:"automation_id"`
	Name         string          `json:"name"`
	Triggered    bool            `json:"triggered"`
	Executed     bool            `json:"executed"`
	Status       ExecutionStatus `json:"status"`
	Message      string          `json:"message"`
	Error        string          `json:"error,omitempty"`
}

type AutomationRunReport struct {
	Success  bool               `json:"success"`
	Checked  int                `json:"checked"`
	Executed int                `json:"executed"`
	Results  []AutomationResult `json:"results"`
}

type CreateAutomationRequest struct {
	Name          string        `json:"name" validate:"required,max=200"`
	TriggerType   TriggerType   `json:"trigger_type" validate:"required,oneof=threshold_based time_based"`
	TriggerConfig TriggerConfig `json:"trigger_config"`
	ActionType    ActionType    `json:"action_type" validate:"required,oneof=pause_campaign update_budget send_alert generate_report"`
	ActionConfig  ActionConfig  `json:"action_config"`
	Active        *bool         `json:"active"`
}
