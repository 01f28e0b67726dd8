package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

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
	connections *mocks.MockConnectionRepository
	campaigns   *mocks.MockCampaignRepository
	registry    *connectormocks.MockRegistry
	connector   *connectormocks.MockConnector
	provider    *connectormocks.MockOAuthProvider
}

var fixedNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, testDeps, *[]time.Duration) {
	t.Helper()
	log.SetupTestLogger()

	ctrl := gomock.NewController(t)
	deps := testDeps{
		connections: mocks.NewMockConnectionRepository(ctrl),
		campaigns:   mocks.NewMockCampaignRepository(ctrl),
		registry:    connectormocks.NewMockRegistry(ctrl),
		connector:   connectormocks.NewMockConnector(ctrl),
		provider:    connectormocks.NewMockOAuthProvider(ctrl),
	}

	s := NewService(&config.Config{}, deps.connections, deps.campaigns, deps.registry)
	s.now = func() time.Time { return fixedNow }

	sleeps := make([]time.Duration, 0)
	s.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	return s, deps, &sleeps
}

func metaConnection(id, userID string) *domain.PlatformConnection {
	return &domain.PlatformConnection{
		ID:          id,
		UserID:      userID,
		Platform:    domain.PlatformMeta,
		AccountID:   "act_123",
		AccessToken: "token",
		Active:      true,
	}
}

func twoCampaigns() []domain.PlatformCampaign {
	return []domain.PlatformCampaign{
		{ExternalID: "meta_cp_1", Name: "Summer Sale", Status: domain.CampaignStatusActive, Spend: 1000, Revenue: 4500},
		{ExternalID: "meta_cp_2", Name: "Brand Awareness", Status: domain.CampaignStatusPaused, Spend: 500},
	}
}

func TestService_SyncUser(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(d testDeps)
		validate func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration)
	}{
		{
			name: "successful sync writes every campaign",
			setup: func(d testDeps) {
				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{metaConnection("conn-1", "user-1")}, nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(twoCampaigns(), nil)
				d.campaigns.EXPECT().Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
						assert.Equal(t, "user-1", c.UserID)
						assert.Equal(t, "conn-1", c.ConnectionID)
						return c, nil
					}).Times(2)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 1, stats.TotalConnections)
				assert.Equal(t, 1, stats.SuccessfulSyncs)
				assert.Equal(t, 0, stats.FailedSyncs)
				assert.Equal(t, 2, stats.TotalCampaigns)
				assert.Empty(t, stats.Errors)
				assert.Empty(t, sleeps)
			},
		},
		{
			name: "gives up after three attempts with linear backoff",
			setup: func(d testDeps) {
				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{metaConnection("conn-1", "user-1")}, nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector).Times(3)
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").
					Return(nil, connector.NewAPIError(domain.PlatformMeta, 500, []byte("boom"))).Times(3)
				d.connections.EXPECT().MarkSynced(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 0, stats.SuccessfulSyncs)
				assert.Equal(t, 1, stats.FailedSyncs)
				require.Len(t, stats.Errors, 1)
				assert.Equal(t, 3, stats.Errors[0].Attempts)
				assert.Contains(t, stats.Errors[0].Error, "status 500")
				assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeps)
			},
		},
		{
			name: "succeeds on the second attempt",
			setup: func(d testDeps) {
				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{metaConnection("conn-1", "user-1")}, nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector).Times(2)
				gomock.InOrder(
					d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(nil, errors.New("timeout")),
					d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(twoCampaigns()[:1], nil),
				)
				d.campaigns.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(&domain.Campaign{}, nil)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 1, stats.SuccessfulSyncs)
				assert.Equal(t, 1, stats.TotalCampaigns)
				assert.Equal(t, []time.Duration{5 * time.Second}, sleeps)
			},
		},
		{
			name: "a failing campaign upsert is skipped",
			setup: func(d testDeps) {
				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{metaConnection("conn-1", "user-1")}, nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(twoCampaigns(), nil)
				gomock.InOrder(
					d.campaigns.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil, errors.New("constraint")),
					d.campaigns.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(&domain.Campaign{}, nil),
				)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 1, stats.SuccessfulSyncs)
				assert.Equal(t, 1, stats.TotalCampaigns)
			},
		},
		{
			name: "one failing connection does not stop its sibling",
			setup: func(d testDeps) {
				good := metaConnection("conn-good", "user-1")
				good.AccountID = "act_good"
				bad := metaConnection("conn-bad", "user-1")
				bad.AccountID = "act_bad"

				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{good, bad}, nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector).Times(4)
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_good").Return(twoCampaigns(), nil)
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_bad").
					Return(nil, errors.New("always fails")).Times(3)
				d.campaigns.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(&domain.Campaign{}, nil).Times(2)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-good", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 2, stats.TotalConnections)
				assert.Equal(t, 1, stats.SuccessfulSyncs)
				assert.Equal(t, 1, stats.FailedSyncs)
				assert.Equal(t, 2, stats.TotalCampaigns)
				require.Len(t, stats.Errors, 1)
				assert.Equal(t, "conn-bad", stats.Errors[0].ConnectionID)
				assert.Equal(t, 3, stats.Errors[0].Attempts)
				assert.Equal(t, "always fails", stats.Errors[0].Error)
				assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeps)
			},
		},
		{
			name: "connection with unreadable tokens fails alone",
			setup: func(d testDeps) {
				stale := metaConnection("conn-stale", "user-1")
				stale.AccessToken = ""
				healthy := metaConnection("conn-1", "user-1")

				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{stale, healthy}, nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(nil, nil)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 1, stats.SuccessfulSyncs)
				assert.Equal(t, 1, stats.FailedSyncs)
				require.Len(t, stats.Errors, 1)
				assert.Equal(t, "conn-stale", stats.Errors[0].ConnectionID)
			},
		},
		{
			name: "missing access token fails without calling the platform",
			setup: func(d testDeps) {
				conn := metaConnection("conn-1", "user-1")
				conn.AccessToken = ""
				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{conn}, nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 1, stats.FailedSyncs)
				require.Len(t, stats.Errors, 1)
				assert.Equal(t, ErrMissingAccessToken.Error(), stats.Errors[0].Error)
			},
		},
		{
			name: "expired token is refreshed before fetching",
			setup: func(d testDeps) {
				conn := metaConnection("conn-1", "user-1")
				expired := fixedNow.Add(-time.Hour)
				refresh := "refresh-1"
				conn.ExpiresAt = &expired
				conn.RefreshToken = &refresh

				newExpiry := fixedNow.Add(time.Hour)
				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{conn}, nil)
				d.registry.EXPECT().Provider(domain.PlatformMeta).Return(d.provider, true)
				d.provider.EXPECT().Configured().Return(true)
				d.provider.EXPECT().RefreshToken(gomock.Any(), "refresh-1").
					Return(&domain.OAuthToken{AccessToken: "fresh", ExpiresAt: &newExpiry}, nil)
				d.connections.EXPECT().UpdateTokens(gomock.Any(), "conn-1", gomock.Any()).Return(nil)
				d.registry.EXPECT().Connector(gomock.Any()).
					DoAndReturn(func(c *domain.PlatformConnection) connector.Connector {
						assert.Equal(t, "fresh", c.AccessToken)
						return d.connector
					})
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(nil, nil)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 1, stats.SuccessfulSyncs)
				assert.Equal(t, 0, stats.TotalCampaigns)
			},
		},
		{
			name: "refresh failure keeps the old token",
			setup: func(d testDeps) {
				conn := metaConnection("conn-1", "user-1")
				expired := fixedNow.Add(-time.Hour)
				refresh := "refresh-1"
				conn.ExpiresAt = &expired
				conn.RefreshToken = &refresh

				d.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
					Return([]*domain.PlatformConnection{conn}, nil)
				d.registry.EXPECT().Provider(domain.PlatformMeta).Return(d.provider, true)
				d.provider.EXPECT().Configured().Return(true)
				d.provider.EXPECT().RefreshToken(gomock.Any(), "refresh-1").Return(nil, connector.ErrOperationNotSupported)
				d.registry.EXPECT().Connector(gomock.Any()).
					DoAndReturn(func(c *domain.PlatformConnection) connector.Connector {
						assert.Equal(t, "token", c.AccessToken)
						return d.connector
					})
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(nil, nil)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, stats *domain.SyncStats, sleeps []time.Duration) {
				assert.Equal(t, 1, stats.SuccessfulSyncs)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, deps, sleeps := newTestService(t)
			tt.setup(deps)

			stats, err := s.SyncUser(context.Background(), "user-1")
			require.NoError(t, err)
			tt.validate(t, stats, *sleeps)
		})
	}
}

func TestService_SyncUser_CapsReportedErrors(t *testing.T) {
	s, deps, _ := newTestService(t)
	s.cfg.Sync.MaxRetries = 1
	s.cfg.Sync.MaxReportedErrors = 2

	connections := make([]*domain.PlatformConnection, 0, 4)
	for _, id := range []string{"conn-1", "conn-2", "conn-3", "conn-4"} {
		connections = append(connections, metaConnection(id, "user-1"))
	}

	deps.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").Return(connections, nil)
	deps.registry.EXPECT().Connector(gomock.Any()).Return(deps.connector).Times(4)
	deps.connector.EXPECT().GetCampaigns(gomock.Any(), gomock.Any()).Return(nil, errors.New("rate limited")).Times(4)

	stats, err := s.SyncUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.FailedSyncs)
	assert.Len(t, stats.Errors, 2)
}

func TestService_SyncUser_StopsRetryingWhenCancelled(t *testing.T) {
	s, deps, _ := newTestService(t)
	s.sleep = func(context.Context, time.Duration) error {
		return context.Canceled
	}

	deps.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
		Return([]*domain.PlatformConnection{metaConnection("conn-1", "user-1")}, nil)
	deps.registry.EXPECT().Connector(gomock.Any()).Return(deps.connector)
	deps.connector.EXPECT().GetCampaigns(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	stats, err := s.SyncUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, 1, stats.Errors[0].Attempts)
	assert.Equal(t, context.Canceled.Error(), stats.Errors[0].Error)
}

func TestService_SyncConnection(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(d testDeps)
		validate func(t *testing.T, result *domain.SyncResult, err error)
	}{
		{
			name: "connection of another user",
			setup: func(d testDeps) {
				d.connections.EXPECT().GetByID(gomock.Any(), "conn-1").Return(metaConnection("conn-1", "user-2"), nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				assert.ErrorIs(t, err, ErrConnectionNotFound)
				assert.Nil(t, result)
			},
		},
		{
			name: "inactive connection",
			setup: func(d testDeps) {
				conn := metaConnection("conn-1", "user-1")
				conn.Active = false
				d.connections.EXPECT().GetByID(gomock.Any(), "conn-1").Return(conn, nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				assert.ErrorIs(t, err, ErrConnectionNotFound)
			},
		},
		{
			name: "syncs the owned connection",
			setup: func(d testDeps) {
				d.connections.EXPECT().GetByID(gomock.Any(), "conn-1").Return(metaConnection("conn-1", "user-1"), nil)
				d.registry.EXPECT().Connector(gomock.Any()).Return(d.connector)
				d.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(twoCampaigns(), nil)
				d.campaigns.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(&domain.Campaign{}, nil).Times(2)
				d.connections.EXPECT().MarkSynced(gomock.Any(), "conn-1", fixedNow).Return(nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				require.NoError(t, err)
				assert.True(t, result.Success)
				assert.Equal(t, 2, result.CampaignsSynced)
				assert.Equal(t, 1, result.Attempts)
				assert.Equal(t, domain.PlatformMeta, result.Platform)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, deps, _ := newTestService(t)
			tt.setup(deps)

			result, err := s.SyncConnection(context.Background(), "user-1", "conn-1")
			tt.validate(t, result, err)
		})
	}
}

func TestService_SyncAllUsers(t *testing.T) {
	s, deps, _ := newTestService(t)
	s.cfg.Sync.MaxRetries = 1
	s.cfg.Sync.MaxConcurrentUsers = 2

	deps.connections.EXPECT().ListUsersWithActiveConnections(gomock.Any()).
		Return([]string{"user-1", "user-2", "user-3", "user-4"}, nil)

	deps.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
		Return([]*domain.PlatformConnection{metaConnection("conn-1", "user-1")}, nil)
	deps.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-2").
		Return(nil, errors.New("db timeout"))
	deps.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-3").
		DoAndReturn(func(context.Context, string) ([]*domain.PlatformConnection, error) {
			panic("unexpected nil")
		})
	deps.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-4").
		Return([]*domain.PlatformConnection{metaConnection("conn-4", "user-4")}, nil)

	deps.registry.EXPECT().Connector(gomock.Any()).Return(deps.connector).Times(2)
	deps.connector.EXPECT().GetCampaigns(gomock.Any(), "act_123").Return(twoCampaigns(), nil).Times(2)
	deps.campaigns.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(&domain.Campaign{}, nil).Times(4)
	deps.connections.EXPECT().MarkSynced(gomock.Any(), gomock.Any(), fixedNow).Return(nil).Times(2)

	report, err := s.SyncAllUsers(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, 4, report.UsersProcessed)
	assert.Equal(t, 2, report.UsersFailed)
	assert.Equal(t, 2, report.SuccessfulSyncs)
	assert.Equal(t, 4, report.TotalCampaigns)

	require.Len(t, report.Results, 4)
	assert.Equal(t, "user-1", report.Results[0].UserID)
	assert.NotNil(t, report.Results[0].Stats)
	assert.Contains(t, report.Results[1].Error, "db timeout")
	assert.Contains(t, report.Results[2].Error, "panic: unexpected nil")
	assert.Equal(t, "user-4", report.Results[3].UserID)
}

func TestService_SyncAllUsers_NoUsers(t *testing.T) {
	s, deps, _ := newTestService(t)
	deps.connections.EXPECT().ListUsersWithActiveConnections(gomock.Any()).Return([]string{}, nil)

	report, err := s.SyncAllUsers(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, 0, report.UsersProcessed)
	assert.Empty(t, report.Results)
}

func TestService_TriggerUserSync(t *testing.T) {
	s, deps, _ := newTestService(t)

	done := make(chan struct{})
	deps.connections.EXPECT().ListActiveByUser(gomock.Any(), "user-1").
		DoAndReturn(func(ctx context.Context, _ string) ([]*domain.PlatformConnection, error) {
			defer close(done)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return []*domain.PlatformConnection{}, nil
		})

	s.TriggerUserSync("user-1")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered sync did not run")
	}
}
