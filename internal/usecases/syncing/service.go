package syncing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/repository"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/metrics"
)

const (
	defaultMaxRetries         = 3
	defaultRetryDelay         = 5 * time.Second
	defaultMaxConcurrentUsers = 3
	defaultMaxReportedErrors  = 10
	defaultTriggerTimeout     = 5 * time.Minute
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrMissingAccessToken = errors.New("connection has no access token")
)

// Sleeper waits between attempts and returns early when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

//go:generate mockgen -source=service.go -destination=mocks/syncer_mock.go -package=mocks
type Syncer interface {
	SyncUser(ctx context.Context, userID string) (*domain.SyncStats, error)
	SyncConnection(ctx context.Context, userID, connectionID string) (*domain.SyncResult, error)
	SyncAllUsers(ctx context.Context) (*domain.CronSyncReport, error)
	TriggerUserSync(userID string)
}

type Service struct {
	cfg         *config.Config
	connections repository.ConnectionRepository
	campaigns   repository.CampaignRepository
	registry    connector.Registry

	sleep Sleeper
	now   func() time.Time
}

func NewService(
	cfg *config.Config,
	connections repository.ConnectionRepository,
	campaigns repository.CampaignRepository,
	registry connector.Registry,
) *Service {
	return &Service{
		cfg:         cfg,
		connections: connections,
		campaigns:   campaigns,
		registry:    registry,
		sleep:       contextSleep,
		now:         time.Now,
	}
}

func (s *Service) maxRetries() int {
	if s.cfg.Sync.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return s.cfg.Sync.MaxRetries
}

func (s *Service) retryDelay() time.Duration {
	if s.cfg.Sync.RetryDelay <= 0 {
		return defaultRetryDelay
	}
	return s.cfg.Sync.RetryDelay
}

func (s *Service) batchSize() int {
	if s.cfg.Sync.MaxConcurrentUsers <= 0 {
		return defaultMaxConcurrentUsers
	}
	return s.cfg.Sync.MaxConcurrentUsers
}

func (s *Service) maxReportedErrors() int {
	if s.cfg.Sync.MaxReportedErrors <= 0 {
		return defaultMaxReportedErrors
	}
	return s.cfg.Sync.MaxReportedErrors
}

// SyncUser syncs every active connection of the user, one after another.
func (s *Service) SyncUser(ctx context.Context, userID string) (*domain.SyncStats, error) {
	start := s.now()
	logger := log.L.WithContext(ctx).WithField("user_id", userID)

	connections, err := s.connections.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing connections of user %s: %w", userID, err)
	}

	stats := &domain.SyncStats{
		UserID:           userID,
		TotalConnections: len(connections),
		Errors:           make([]domain.SyncResult, 0),
	}

	logger.Infof("Starting sync of %d connections", len(connections))

	for _, conn := range connections {
		result := s.syncWithRetry(ctx, conn)

		if result.Success {
			stats.SuccessfulSyncs++
			stats.TotalCampaigns += result.CampaignsSynced
			continue
		}

		stats.FailedSyncs++
		if len(stats.Errors) < s.maxReportedErrors() {
			stats.Errors = append(stats.Errors, result)
		}
	}

	elapsed := s.now().Sub(start)
	stats.Duration = elapsed.Milliseconds()
	metrics.SyncUserDuration.Observe(elapsed.Seconds())

	logger.WithFields(log.Fields{
		"successful": stats.SuccessfulSyncs,
		"failed":     stats.FailedSyncs,
		"campaigns":  stats.TotalCampaigns,
	}).Info("User sync finished")

	return stats, nil
}

// SyncConnection runs the retrying sync for one connection owned by the user.
func (s *Service) SyncConnection(ctx context.Context, userID, connectionID string) (*domain.SyncResult, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.UserID != userID || !conn.Active {
		return nil, ErrConnectionNotFound
	}

	result := s.syncWithRetry(ctx, conn)
	return &result, nil
}

func (s *Service) syncWithRetry(ctx context.Context, conn *domain.PlatformConnection) domain.SyncResult {
	start := s.now()
	result := domain.SyncResult{
		ConnectionID: conn.ID,
		Platform:     conn.Platform,
		AccountID:    conn.AccountID,
	}

	logger := log.L.WithContext(ctx).WithFields(log.Fields{
		"user_id":       conn.UserID,
		"connection_id": conn.ID,
		"platform":      conn.Platform,
	})

	maxRetries := s.maxRetries()
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result.Attempts = attempt

		synced, err := s.syncOnce(ctx, conn)
		if err == nil {
			metrics.SyncAttemptsTotal.WithLabelValues(conn.Platform.String(), "success").Inc()
			result.Success = true
			result.CampaignsSynced = synced
			break
		}

		lastErr = err
		metrics.SyncAttemptsTotal.WithLabelValues(conn.Platform.String(), "error").Inc()
		logger.WithFields(log.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Sync attempt failed")

		if attempt == maxRetries {
			break
		}

		if err := s.sleep(ctx, time.Duration(attempt)*s.retryDelay()); err != nil {
			lastErr = err
			break
		}
	}

	if !result.Success && lastErr != nil {
		result.Error = lastErr.Error()
	}
	result.Duration = s.now().Sub(start).Milliseconds()

	status := "success"
	if !result.Success {
		status = "failed"
	}
	metrics.SyncConnectionsTotal.WithLabelValues(conn.Platform.String(), status).Inc()

	return result
}

// syncOnce is a single attempt and returns how many campaigns were written.
func (s *Service) syncOnce(ctx context.Context, conn *domain.PlatformConnection) (int, error) {
	now := s.now()

	if conn.TokenExpired(now) && conn.CanRefresh() {
		s.refreshToken(ctx, conn)
	}

	if conn.AccessToken == "" {
		return 0, ErrMissingAccessToken
	}

	platformCampaigns, err := s.registry.Connector(conn).GetCampaigns(ctx, conn.AccountID)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, pc := range platformCampaigns {
		campaign := domain.NewCampaignFromPlatform(conn, pc, now)
		if _, err := s.campaigns.Upsert(ctx, campaign); err != nil {
			log.L.WithContext(ctx).WithFields(log.Fields{
				"connection_id": conn.ID,
				"platform":      conn.Platform,
				"external_id":   pc.ExternalID,
				"error":         err.Error(),
			}).Error("Failed to upsert campaign")
			continue
		}
		synced++
	}
	metrics.SyncCampaignsUpserted.WithLabelValues(conn.Platform.String()).Add(float64(synced))

	if err := s.connections.MarkSynced(ctx, conn.ID, now); err != nil {
		log.L.WithContext(ctx).WithFields(log.Fields{
			"connection_id": conn.ID,
			"error":         err.Error(),
		}).Warn("Failed to record last sync time")
	}

	return synced, nil
}

// refreshToken is best-effort; on failure the attempt continues with the old token.
func (s *Service) refreshToken(ctx context.Context, conn *domain.PlatformConnection) {
	logger := log.L.WithContext(ctx).WithFields(log.Fields{
		"connection_id": conn.ID,
		"platform":      conn.Platform,
	})

	provider, ok := s.registry.Provider(conn.Platform)
	if !ok || !provider.Configured() {
		return
	}

	token, err := provider.RefreshToken(ctx, *conn.RefreshToken)
	if err != nil {
		if !errors.Is(err, connector.ErrOperationNotSupported) {
			logger.WithField("error", err.Error()).Warn("Token refresh failed")
		}
		return
	}

	if err := s.connections.UpdateTokens(ctx, conn.ID, token); err != nil {
		logger.WithField("error", err.Error()).Warn("Failed to persist refreshed token")
	}

	conn.AccessToken = token.AccessToken
	conn.ExpiresAt = token.ExpiresAt
	if token.RefreshToken != "" {
		refresh := token.RefreshToken
		conn.RefreshToken = &refresh
	}
	logger.Info("Access token refreshed")
}

// SyncAllUsers runs SyncUser for every user with an active connection, in
// fixed-size batches. A failing user never stops the others.
func (s *Service) SyncAllUsers(ctx context.Context) (*domain.CronSyncReport, error) {
	start := s.now()

	userIDs, err := s.connections.ListUsersWithActiveConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users to sync: %w", err)
	}

	report := &domain.CronSyncReport{
		Results: make([]domain.UserSyncReport, len(userIDs)),
	}

	batch := s.batchSize()
	var mu sync.Mutex

	for i := 0; i < len(userIDs); i += batch {
		end := min(i+batch, len(userIDs))

		var wg sync.WaitGroup
		for idx := i; idx < end; idx++ {
			wg.Add(1)
			go func(idx int, userID string) {
				defer wg.Done()

				entry := s.syncUserSafely(ctx, userID)

				mu.Lock()
				defer mu.Unlock()
				report.Results[idx] = entry
				report.UsersProcessed++
				if entry.Stats == nil {
					report.UsersFailed++
					return
				}
				report.TotalConnections += entry.Stats.TotalConnections
				report.SuccessfulSyncs += entry.Stats.SuccessfulSyncs
				report.FailedSyncs += entry.Stats.FailedSyncs
				report.TotalCampaigns += entry.Stats.TotalCampaigns
			}(idx, userIDs[idx])
		}
		wg.Wait()
	}

	report.Success = true
	report.Duration = s.now().Sub(start).Milliseconds()

	log.L.WithContext(ctx).WithFields(log.Fields{
		"users":     report.UsersProcessed,
		"failed":    report.UsersFailed,
		"campaigns": report.TotalCampaigns,
	}).Info("Platform sync for all users finished")

	return report, nil
}

func (s *Service) syncUserSafely(ctx context.Context, userID string) (entry domain.UserSyncReport) {
	entry.UserID = userID

	defer func() {
		if r := recover(); r != nil {
			log.L.WithFields(log.Fields{"user_id": userID, "error": r}).Error("User sync panicked")
			entry.Stats = nil
			entry.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	stats, err := s.SyncUser(ctx, userID)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Stats = stats
	return entry
}

// TriggerUserSync starts a detached sync for the user. It is not retried and
// its outcome is only logged.
func (s *Service) TriggerUserSync(userID string) {
	timeout := s.cfg.OAuth.SyncTriggerTimeout
	if timeout <= 0 {
		timeout = defaultTriggerTimeout
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		entry := s.syncUserSafely(ctx, userID)
		if entry.Error != "" {
			log.L.WithFields(log.Fields{"user_id": userID, "error": entry.Error}).Warn("Triggered sync failed")
		}
	}()
}

var _ Syncer = (*Service)(nil)
