package automating

import (
	"errors"
	"fmt"
)

var (
	ErrAutomationNotFound = errors.New("automation not found")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrInvalidTrigger     = errors.New("invalid trigger config")
	ErrInvalidAction      = errors.New("invalid action config")
	ErrUnknownAction      = errors.New("unknown action type")
	ErrMissingBudget      = errors.New("update_budget requires new_budget")
)

// AutomationError carries the API error code of an automation failure.
type AutomationError struct {
	Err     error
	Code    string
	Details string
}

func (e *AutomationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AutomationError) Unwrap() error {
	return e.Err
}

func NewAutomationError(baseErr error, code string, details string) *AutomationError {
	return &AutomationError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}
