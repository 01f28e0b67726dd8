package automating

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	connectormocks "github.com/growzzy/growzzy-api/infrastructure/integrator/connector/mocks"
	"github.com/growzzy/growzzy-api/infrastructure/repository/mocks"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	automations *mocks.MockAutomationRepository
	logs        *mocks.MockAutomationLogRepository
	campaigns   *mocks.MockCampaignRepository
	connections *mocks.MockConnectionRepository
	registry    *connectormocks.MockRegistry
	connector   *connectormocks.MockConnector
}

var fixedNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, testDeps) {
	t.Helper()
	log.SetupTestLogger()

	ctrl := gomock.NewController(t)
	deps := testDeps{
		automations: mocks.NewMockAutomationRepository(ctrl),
		logs:        mocks.NewMockAutomationLogRepository(ctrl),
		campaigns:   mocks.NewMockCampaignRepository(ctrl),
		connections: mocks.NewMockConnectionRepository(ctrl),
		registry:    connectormocks.NewMockRegistry(ctrl),
		connector:   connectormocks.NewMockConnector(ctrl),
	}

	cfg := &config.Config{}
	cfg.Automation.Timezone = "UTC"

	s := NewService(cfg, deps.automations, deps.logs, deps.campaigns, deps.connections, deps.registry)
	s.now = func() time.Time { return fixedNow }
	return s, deps
}

func budgetPtr(v float64) *float64 {
	return &v
}

func thresholdAutomation(id string, action domain.ActionType) *domain.Automation {
	return &domain.Automation{
		ID:          id,
		UserID:      "user-1",
		Name:        "Pause when ROAS drops",
		TriggerType: domain.TriggerThreshold,
		TriggerConfig: domain.TriggerConfig{
			Metric:     "roas",
			Operator:   "<",
			Value:      1,
			CampaignID: "cmp-1",
		},
		ActionType: action,
		Active:     true,
	}
}

func lowROASCampaign() *domain.Campaign {
	c := &domain.Campaign{
		ID:           "cmp-1",
		UserID:       "user-1",
		Platform:     domain.PlatformMeta,
		ConnectionID: "conn-1",
		ExternalID:   "meta_cp_3",
		Name:         "Conversion Lookalike",
		Spend:        8900,
		Revenue:      7120,
	}
	c.ComputeDerived()
	return c
}

func activeConnection() *domain.PlatformConnection {
	return &domain.PlatformConnection{ID: "conn-1", UserID: "user-1", Platform: domain.PlatformMeta, Active: true}
}

func TestService_CheckAutomations(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(d testDeps, logged *[]*domain.AutomationExecutionLog)
		validate func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog)
	}{
		{
			name: "trigger not met is logged as success without running the action",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				healthy := lowROASCampaign()
				healthy.Revenue = 30000
				healthy.ComputeDerived()

				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{thresholdAutomation("auto-1", domain.ActionPauseCampaign)}, nil)
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(healthy, nil)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.True(t, report.Success)
				assert.Equal(t, 1, report.Checked)
				assert.Equal(t, 0, report.Executed)

				require.Len(t, logged, 1)
				assert.False(t, logged[0].Triggered)
				assert.Equal(t, domain.ExecutionSuccess, logged[0].Status)
				assert.Equal(t, "Trigger condition not met", logged[0].Message)
				assert.Nil(t, logged[0].Error)
			},
		},
		{
			name: "pause action goes through the connector then flips the local status",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{thresholdAutomation("auto-1", domain.ActionPauseCampaign)}, nil)
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(lowROASCampaign(), nil).Times(2)
				d.connections.EXPECT().GetByID(gomock.Any(), "conn-1").Return(activeConnection(), nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)

				gomock.InOrder(
					d.connector.EXPECT().PauseCampaign(gomock.Any(), "meta_cp_3").Return(nil),
					d.campaigns.EXPECT().UpdateStatus(gomock.Any(), "cmp-1", domain.CampaignStatusPaused).Return(nil),
					d.automations.EXPECT().MarkExecuted(gomock.Any(), "auto-1", fixedNow).Return(nil),
				)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.Equal(t, 1, report.Executed)
				require.Len(t, report.Results, 1)
				assert.True(t, report.Results[0].Triggered)
				assert.True(t, report.Results[0].Executed)

				require.Len(t, logged, 1)
				assert.True(t, logged[0].Triggered)
				assert.Equal(t, domain.ExecutionSuccess, logged[0].Status)
				assert.Equal(t, domain.ActionPauseCampaign, logged[0].ActionType)
			},
		},
		{
			name: "failed action leaves last execution untouched",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{thresholdAutomation("auto-1", domain.ActionPauseCampaign)}, nil)
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(lowROASCampaign(), nil).Times(2)
				d.connections.EXPECT().GetByID(gomock.Any(), "conn-1").Return(activeConnection(), nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)
				d.connector.EXPECT().PauseCampaign(gomock.Any(), "meta_cp_3").
					Return(connector.NewAPIError(domain.PlatformMeta, 400, []byte(`{"error":{"code":100}}`)))
				d.automations.EXPECT().MarkExecuted(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				d.campaigns.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.Equal(t, 0, report.Executed)
				require.Len(t, logged, 1)
				assert.True(t, logged[0].Triggered)
				assert.Equal(t, domain.ExecutionFailed, logged[0].Status)
				require.NotNil(t, logged[0].Error)
				assert.Contains(t, *logged[0].Error, "meta")
			},
		},
		{
			name: "budget update falls back to local when the platform does not support it",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				automation := thresholdAutomation("auto-1", domain.ActionUpdateBudget)
				automation.ActionConfig.NewBudget = budgetPtr(75)

				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{automation}, nil)
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(lowROASCampaign(), nil).Times(2)
				d.connections.EXPECT().GetByID(gomock.Any(), "conn-1").Return(activeConnection(), nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)
				d.connector.EXPECT().UpdateBudget(gomock.Any(), "meta_cp_3", 75.0).Return(connector.ErrOperationNotSupported)
				d.campaigns.EXPECT().UpdateBudget(gomock.Any(), "cmp-1", 75.0).Return(nil)
				d.automations.EXPECT().MarkExecuted(gomock.Any(), "auto-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.Equal(t, 1, report.Executed)
				require.Len(t, logged, 1)
				assert.Equal(t, domain.ExecutionSuccess, logged[0].Status)
			},
		},
		{
			name: "budget update without a new budget fails",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{thresholdAutomation("auto-1", domain.ActionUpdateBudget)}, nil)
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(lowROASCampaign(), nil)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				require.Len(t, logged, 1)
				assert.Equal(t, domain.ExecutionFailed, logged[0].Status)
				assert.Equal(t, ErrMissingBudget.Error(), *logged[0].Error)
			},
		},
		{
			name: "one automation failing does not stop the next",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				broken := thresholdAutomation("auto-1", domain.ActionPauseCampaign)
				alert := &domain.Automation{
					ID:            "auto-2",
					UserID:        "user-1",
					TriggerType:   domain.TriggerTime,
					TriggerConfig: domain.TriggerConfig{Schedule: []string{"9-17"}},
					ActionType:    domain.ActionSendAlert,
					Active:        true,
				}

				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{broken, alert}, nil)
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(nil, errors.New("connection reset"))
				d.automations.EXPECT().MarkExecuted(gomock.Any(), "auto-2", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.Equal(t, 2, report.Checked)
				assert.Equal(t, 1, report.Executed)

				require.Len(t, logged, 2)
				assert.Equal(t, domain.ExecutionFailed, logged[0].Status)
				assert.Equal(t, "auto-2", logged[1].AutomationID)
				assert.Equal(t, domain.ExecutionSuccess, logged[1].Status)
				assert.True(t, logged[1].Triggered)
			},
		},
		{
			name: "a panicking connector is recorded as a failure",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{thresholdAutomation("auto-1", domain.ActionPauseCampaign)}, nil)
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(lowROASCampaign(), nil).Times(2)
				d.connections.EXPECT().GetByID(gomock.Any(), "conn-1").Return(activeConnection(), nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)
				d.connector.EXPECT().PauseCampaign(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, string) error {
					panic("nil map")
				})
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.True(t, report.Success)
				require.Len(t, report.Results, 1)
				assert.Equal(t, domain.ExecutionFailed, report.Results[0].Status)
				assert.Contains(t, report.Results[0].Error, "nil map")
				require.Len(t, logged, 1)
			},
		},
		{
			name: "time trigger outside its window",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{{
					ID:            "auto-3",
					UserID:        "user-1",
					TriggerType:   domain.TriggerTime,
					TriggerConfig: domain.TriggerConfig{Schedule: []string{"22-6"}},
					ActionType:    domain.ActionGenerateReport,
				}}, nil)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.Equal(t, 0, report.Executed)
				require.Len(t, logged, 1)
				assert.False(t, logged[0].Triggered)
			},
		},
		{
			name: "time trigger uses the automation timezone",
			setup: func(d testDeps, _ *[]*domain.AutomationExecutionLog) {
				// 14:30 UTC is 23:30 in Tokyo.
				d.automations.EXPECT().ListActive(gomock.Any()).Return([]*domain.Automation{{
					ID:            "auto-4",
					UserID:        "user-1",
					TriggerType:   domain.TriggerTime,
					TriggerConfig: domain.TriggerConfig{Schedule: []string{"22-6"}, Timezone: "Asia/Tokyo"},
					ActionType:    domain.ActionGenerateReport,
				}}, nil)
				d.automations.EXPECT().MarkExecuted(gomock.Any(), "auto-4", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, report *domain.AutomationRunReport, logged []*domain.AutomationExecutionLog) {
				assert.Equal(t, 1, report.Executed)
				require.Len(t, logged, 1)
				assert.True(t, logged[0].Triggered)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, deps := newTestService(t)

			var logged []*domain.AutomationExecutionLog
			deps.logs.EXPECT().Append(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, entry *domain.AutomationExecutionLog) error {
					logged = append(logged, entry)
					return nil
				}).AnyTimes()

			tt.setup(deps, &logged)

			report, err := s.CheckAutomations(context.Background())
			require.NoError(t, err)
			tt.validate(t, report, logged)
		})
	}
}

func TestService_CheckAutomations_ListFails(t *testing.T) {
	s, deps := newTestService(t)
	deps.automations.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("db down"))

	report, err := s.CheckAutomations(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestService_RunOne(t *testing.T) {
	t.Run("unknown automation", func(t *testing.T) {
		s, deps := newTestService(t)
		deps.automations.EXPECT().GetByID(gomock.Any(), "user-1", "missing").Return(nil, nil)

		_, err := s.RunOne(context.Background(), "user-1", "missing")

		var autoErr *AutomationError
		require.True(t, errors.As(err, &autoErr))
		assert.ErrorIs(t, err, ErrAutomationNotFound)
	})

	t.Run("runs an inactive automation on demand", func(t *testing.T) {
		s, deps := newTestService(t)
		deps.automations.EXPECT().GetByID(gomock.Any(), "user-1", "auto-9").Return(&domain.Automation{
			ID:            "auto-9",
			UserID:        "user-1",
			TriggerType:   domain.TriggerTime,
			TriggerConfig: domain.TriggerConfig{Schedule: []string{"0-24"}},
			ActionType:    domain.ActionSendAlert,
			Active:        false,
		}, nil)
		deps.automations.EXPECT().MarkExecuted(gomock.Any(), "auto-9", fixedNow).Return(nil)
		deps.logs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.RunOne(context.Background(), "user-1", "auto-9")
		require.NoError(t, err)
		assert.True(t, result.Executed)
		assert.Equal(t, "Alert sent", result.Message)
	})
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.CreateAutomationRequest
		setup    func(d testDeps)
		validate func(t *testing.T, created *domain.Automation, err error)
	}{
		{
			name: "valid threshold automation",
			req: domain.CreateAutomationRequest{
				Name:          "Pause low ROAS",
				TriggerType:   domain.TriggerThreshold,
				TriggerConfig: domain.TriggerConfig{Metric: "roas", Operator: "<", Value: 1, CampaignID: "cmp-1"},
				ActionType:    domain.ActionPauseCampaign,
			},
			setup: func(d testDeps) {
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-1").Return(lowROASCampaign(), nil)
				d.automations.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *domain.Automation) (*domain.Automation, error) {
						a.ID = "auto-1"
						return a, nil
					})
			},
			validate: func(t *testing.T, created *domain.Automation, err error) {
				require.NoError(t, err)
				assert.Equal(t, "auto-1", created.ID)
				assert.Equal(t, "user-1", created.UserID)
				assert.True(t, created.Active)
			},
		},
		{
			name: "unknown metric is rejected",
			req: domain.CreateAutomationRequest{
				Name:          "Bad metric",
				TriggerType:   domain.TriggerThreshold,
				TriggerConfig: domain.TriggerConfig{Metric: "likes", Operator: "<", CampaignID: "cmp-1"},
				ActionType:    domain.ActionSendAlert,
			},
			setup: func(d testDeps) {},
			validate: func(t *testing.T, created *domain.Automation, err error) {
				assert.ErrorIs(t, err, ErrInvalidTrigger)
				assert.Nil(t, created)
			},
		},
		{
			name: "malformed schedule is rejected",
			req: domain.CreateAutomationRequest{
				Name:          "Night",
				TriggerType:   domain.TriggerTime,
				TriggerConfig: domain.TriggerConfig{Schedule: []string{"22:00-06:00"}},
				ActionType:    domain.ActionSendAlert,
			},
			setup: func(d testDeps) {},
			validate: func(t *testing.T, created *domain.Automation, err error) {
				assert.ErrorIs(t, err, ErrInvalidTrigger)
			},
		},
		{
			name: "budget action needs a budget",
			req: domain.CreateAutomationRequest{
				Name:          "Raise budget",
				TriggerType:   domain.TriggerThreshold,
				TriggerConfig: domain.TriggerConfig{Metric: "roas", Operator: ">", Value: 3, CampaignID: "cmp-1"},
				ActionType:    domain.ActionUpdateBudget,
			},
			setup: func(d testDeps) {},
			validate: func(t *testing.T, created *domain.Automation, err error) {
				assert.ErrorIs(t, err, ErrMissingBudget)
			},
		},
		{
			name: "campaign of another user",
			req: domain.CreateAutomationRequest{
				Name:          "Pause",
				TriggerType:   domain.TriggerThreshold,
				TriggerConfig: domain.TriggerConfig{Metric: "spend", Operator: ">", Value: 100, CampaignID: "cmp-x"},
				ActionType:    domain.ActionPauseCampaign,
			},
			setup: func(d testDeps) {
				d.campaigns.EXPECT().GetByID(gomock.Any(), "user-1", "cmp-x").Return(nil, nil)
			},
			validate: func(t *testing.T, created *domain.Automation, err error) {
				assert.ErrorIs(t, err, ErrCampaignNotFound)
			},
		},
		{
			name: "unsupported action type fails validation",
			req: domain.CreateAutomationRequest{
				Name:          "Email",
				TriggerType:   domain.TriggerTime,
				TriggerConfig: domain.TriggerConfig{Schedule: []string{"9-17"}},
				ActionType:    domain.ActionType("send_email"),
			},
			setup: func(d testDeps) {},
			validate: func(t *testing.T, created *domain.Automation, err error) {
				var autoErr *AutomationError
				require.True(t, errors.As(err, &autoErr))
				assert.Equal(t, "VAL_001", autoErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, deps := newTestService(t)
			tt.setup(deps)

			created, err := s.Create(context.Background(), "user-1", tt.req)
			tt.validate(t, created, err)
		})
	}
}
