package automating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/repository"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/metrics"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

const notTriggeredMessage = "Trigger condition not met"

//go:generate mockgen -source=service.go -destination=mocks/automator_mock.go -package=mocks
type Automator interface {
	CheckAutomations(ctx context.Context) (*domain.AutomationRunReport, error)
	RunOne(ctx context.Context, userID, automationID string) (*domain.AutomationResult, error)
	Create(ctx context.Context, userID string, req domain.CreateAutomationRequest) (*domain.Automation, error)
	List(ctx context.Context, userID string) ([]*domain.Automation, error)
	Logs(ctx context.Context, userID string, limit int) ([]*domain.AutomationExecutionLog, error)
}

type Service struct {
	cfg         *config.Config
	automations repository.AutomationRepository
	logs        repository.AutomationLogRepository
	campaigns   repository.CampaignRepository
	connections repository.ConnectionRepository
	registry    connector.Registry
	now         func() time.Time
}

func NewService(
	cfg *config.Config,
	automations repository.AutomationRepository,
	logs repository.AutomationLogRepository,
	campaigns repository.CampaignRepository,
	connections repository.ConnectionRepository,
	registry connector.Registry,
) *Service {
	return &Service{
		cfg:         cfg,
		automations: automations,
		logs:        logs,
		campaigns:   campaigns,
		connections: connections,
		registry:    registry,
		now:         time.Now,
	}
}

// CheckAutomations evaluates every active automation. One automation's
// failure is recorded in its result and never stops the others.
func (s *Service) CheckAutomations(ctx context.Context) (*domain.AutomationRunReport, error) {
	automations, err := s.automations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active automations: %w", err)
	}

	report := &domain.AutomationRunReport{
		Success: true,
		Results: make([]domain.AutomationResult, 0, len(automations)),
	}

	for _, automation := range automations {
		result := s.process(ctx, automation)
		report.Checked++
		if result.Executed {
			report.Executed++
		}
		report.Results = append(report.Results, result)
	}

	log.L.WithContext(ctx).WithFields(log.Fields{
		"checked":  report.Checked,
		"executed": report.Executed,
	}).Info("Automation check finished")

	return report, nil
}

// RunOne evaluates one automation of the user on demand, active or not.
func (s *Service) RunOne(ctx context.Context, userID, automationID string) (*domain.AutomationResult, error) {
	automation, err := s.automations.GetByID(ctx, userID, automationID)
	if err != nil {
		return nil, NewAutomationError(err, apiErrors.ErrDatabaseOperation, "")
	}
	if automation == nil {
		return nil, NewAutomationError(ErrAutomationNotFound, apiErrors.ErrResourceNotFound, automationID)
	}

	result := s.process(ctx, automation)
	return &result, nil
}

// process evaluates, executes and logs one automation.
func (s *Service) process(ctx context.Context, automation *domain.Automation) (result domain.AutomationResult) {
	result = domain.AutomationResult{
		AutomationID: automation.ID,
		Name:         automation.Name,
	}

	logger := log.L.WithContext(ctx).WithFields(log.Fields{
		"automation_id": automation.ID,
		"user_id":       automation.UserID,
	})

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("error", r).Error("Automation panicked")
			result.Executed = false
			result.Status = domain.ExecutionFailed
			result.Error = fmt.Sprintf("panic: %v", r)
			result.Message = "Automation failed"
		}
		s.appendLog(ctx, automation, result)
		metrics.AutomationEvaluationsTotal.WithLabelValues(string(automation.TriggerType), outcome(result)).Inc()
	}()

	triggered, err := s.evaluate(ctx, automation)
	if err != nil {
		result.Status = domain.ExecutionFailed
		result.Message = "Trigger evaluation failed"
		result.Error = err.Error()
		logger.WithError(err).Warn("Trigger evaluation failed")
		return result
	}

	result.Triggered = triggered
	if !triggered {
		result.Status = domain.ExecutionSuccess
		result.Message = notTriggeredMessage
		return result
	}

	message, err := s.execute(ctx, automation)
	if err != nil {
		result.Status = domain.ExecutionFailed
		result.Message = "Action failed"
		result.Error = err.Error()
		logger.WithFields(log.Fields{
			"action": automation.ActionType,
			"error":  err.Error(),
		}).Warn("Automation action failed")
		return result
	}

	result.Executed = true
	result.Status = domain.ExecutionSuccess
	result.Message = message

	if err := s.automations.MarkExecuted(ctx, automation.ID, s.now()); err != nil {
		logger.WithError(err).Error("Failed to update last execution time")
	}

	logger.WithField("action", automation.ActionType).Info(message)
	return result
}

func outcome(result domain.AutomationResult) string {
	switch {
	case result.Status == domain.ExecutionFailed:
		return "failed"
	case result.Executed:
		return "executed"
	default:
		return "skipped"
	}
}

func (s *Service) appendLog(ctx context.Context, automation *domain.Automation, result domain.AutomationResult) {
	entry := &domain.AutomationExecutionLog{
		AutomationID: automation.ID,
		UserID:       automation.UserID,
		ActionType:   automation.ActionType,
		Triggered:    result.Triggered,
		Status:       result.Status,
		Message:      result.Message,
		ExecutedAt:   s.now(),
	}
	if result.Error != "" {
		errText := result.Error
		entry.Error = &errText
	}

	if err := s.logs.Append(ctx, entry); err != nil {
		log.L.WithContext(ctx).WithFields(log.Fields{
			"automation_id": automation.ID,
			"error":         err.Error(),
		}).Error("Failed to append automation log")
	}
}

func (s *Service) evaluate(ctx context.Context, automation *domain.Automation) (bool, error) {
	switch automation.TriggerType {
	case domain.TriggerThreshold:
		cfg := automation.TriggerConfig
		if cfg.CampaignID == "" {
			return false, nil
		}

		campaign, err := s.campaigns.GetByID(ctx, automation.UserID, cfg.CampaignID)
		if err != nil {
			return false, err
		}
		return EvaluateThreshold(campaign, cfg), nil

	case domain.TriggerTime:
		hour := s.now().In(s.location(automation)).Hour()
		return MatchesSchedule(hour, automation.TriggerConfig.Schedule), nil

	default:
		return false, nil
	}
}

// location prefers the automation's own timezone over AUTOMATION_TIMEZONE.
func (s *Service) location(automation *domain.Automation) *time.Location {
	for _, name := range []string{automation.TriggerConfig.Timezone, s.cfg.Automation.Timezone} {
		if name == "" {
			continue
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			log.L.WithFields(log.Fields{
				"automation_id": automation.ID,
				"timezone":      name,
			}).Warn("Unknown timezone, trying the next one")
			continue
		}
		return loc
	}
	return time.UTC
}

// execute runs the action and returns a message for the log.
func (s *Service) execute(ctx context.Context, automation *domain.Automation) (string, error) {
	switch automation.ActionType {
	case domain.ActionPauseCampaign:
		campaign, conn, err := s.target(ctx, automation)
		if err != nil {
			return "", err
		}
		if err := s.registry.Connector(conn).PauseCampaign(ctx, campaign.ExternalID); err != nil {
			return "", err
		}
		if err := s.campaigns.UpdateStatus(ctx, campaign.ID, domain.CampaignStatusPaused); err != nil {
			return "", err
		}
		return fmt.Sprintf("Campaign %s paused", campaign.Name), nil

	case domain.ActionUpdateBudget:
		budget := automation.ActionConfig.NewBudget
		if budget == nil {
			return "", ErrMissingBudget
		}

		campaign, conn, err := s.target(ctx, automation)
		if err != nil {
			return "", err
		}

		err = s.registry.Connector(conn).UpdateBudget(ctx, campaign.ExternalID, *budget)
		switch {
		case errors.Is(err, connector.ErrOperationNotSupported):
			log.L.WithFields(log.Fields{
				"automation_id": automation.ID,
				"platform":      campaign.Platform,
			}).Info("Platform does not accept budget updates, changing the local budget only")
		case err != nil:
			return "", err
		}

		if err := s.campaigns.UpdateBudget(ctx, campaign.ID, *budget); err != nil {
			return "", err
		}
		return fmt.Sprintf("Budget of %s set to %.2f", campaign.Name, *budget), nil

	case domain.ActionSendAlert:
		log.L.WithFields(log.Fields{
			"automation_id": automation.ID,
			"user_id":       automation.UserID,
			"subject":       automation.ActionConfig.Subject,
			"recipients":    automation.ActionConfig.Recipients,
		}).Info("Automation alert")
		return "Alert sent", nil

	case domain.ActionGenerateReport:
		return "Report generation requested", nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, automation.ActionType)
	}
}

// target loads the campaign an action applies to and the connection it came from.
func (s *Service) target(ctx context.Context, automation *domain.Automation) (*domain.Campaign, *domain.PlatformConnection, error) {
	campaignID := automation.TargetCampaignID()
	if campaignID == "" {
		return nil, nil, ErrInvalidAction
	}

	campaign, err := s.campaigns.GetByID(ctx, automation.UserID, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if campaign == nil {
		return nil, nil, ErrCampaignNotFound
	}

	conn, err := s.connections.GetByID(ctx, campaign.ConnectionID)
	if err != nil {
		return nil, nil, err
	}
	if conn == nil || !conn.Active {
		return nil, nil, ErrConnectionNotFound
	}

	return campaign, conn, nil
}

func (s *Service) Create(ctx context.Context, userID string, req domain.CreateAutomationRequest) (*domain.Automation, error) {
	if _, err := utils.Validate(req); err != nil {
		return nil, NewAutomationError(ErrInvalidTrigger, apiErrors.ErrInvalidRequest, err.Error())
	}

	if err := validateConfig(req); err != nil {
		return nil, NewAutomationError(err, apiErrors.ErrInvalidRequest, "")
	}

	automation := &domain.Automation{
		UserID:        userID,
		Name:          req.Name,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		ActionType:    req.ActionType,
		ActionConfig:  req.ActionConfig,
		Active:        true,
	}
	if req.Active != nil {
		automation.Active = *req.Active
	}

	if campaignID := automation.TargetCampaignID(); campaignID != "" {
		campaign, err := s.campaigns.GetByID(ctx, userID, campaignID)
		if err != nil {
			return nil, NewAutomationError(err, apiErrors.ErrDatabaseOperation, "")
		}
		if campaign == nil {
			return nil, NewAutomationError(ErrCampaignNotFound, apiErrors.ErrResourceNotFound, campaignID)
		}
	}

	created, err := s.automations.Create(ctx, automation)
	if err != nil {
		return nil, NewAutomationError(err, apiErrors.ErrDatabaseOperation, "")
	}
	return created, nil
}

func validateConfig(req domain.CreateAutomationRequest) error {
	tc := req.TriggerConfig
	switch req.TriggerType {
	case domain.TriggerThreshold:
		if tc.CampaignID == "" {
			return fmt.Errorf("%w: campaign_id is required", ErrInvalidTrigger)
		}
		if _, ok := (&domain.Campaign{}).Metric(tc.Metric); !ok {
			return fmt.Errorf("%w: unknown metric %q", ErrInvalidTrigger, tc.Metric)
		}
		if !validOperator(tc.Operator) {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidTrigger, tc.Operator)
		}
	case domain.TriggerTime:
		if len(tc.Schedule) == 0 {
			return fmt.Errorf("%w: schedule is required", ErrInvalidTrigger)
		}
		for _, raw := range tc.Schedule {
			if _, err := parseHourRange(raw); err != nil {
				return err
			}
		}
		if tc.Timezone != "" {
			if _, err := time.LoadLocation(tc.Timezone); err != nil {
				return fmt.Errorf("%w: unknown timezone %q", ErrInvalidTrigger, tc.Timezone)
			}
		}
	}

	switch req.ActionType {
	case domain.ActionUpdateBudget:
		if req.ActionConfig.NewBudget == nil || *req.ActionConfig.NewBudget < 0 {
			return ErrMissingBudget
		}
		fallthrough
	case domain.ActionPauseCampaign:
		if req.ActionConfig.CampaignID == "" && tc.CampaignID == "" {
			return fmt.Errorf("%w: campaign_id is required", ErrInvalidAction)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*domain.Automation, error) {
	return s.automations.ListByUser(ctx, userID)
}

func (s *Service) Logs(ctx context.Context, userID string, limit int) ([]*domain.AutomationExecutionLog, error) {
	return s.logs.ListByUser(ctx, userID, limit)
}

var _ Automator = (*Service)(nil)
