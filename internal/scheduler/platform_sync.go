// Package scheduler runs the periodic platform sync and automation check in
// process, next to the cron endpoints that trigger the same routines.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/growzzy/growzzy-api/infrastructure/repository"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/internal/usecases/syncing"
	"github.com/growzzy/growzzy-api/pkg/log"
)

const stateCleanupEvery = 1 * time.Hour

type PlatformSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// PlatformSyncService runs the all-users sync on a cron and prunes expired
// OAuth states.
type PlatformSyncService struct {
	scheduler *gocron.Scheduler
	config    PlatformSyncConfig
	syncer    syncing.Syncer
	states    repository.OAuthStateRepository

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastReport          *domain.CronSyncReport
	lastError           string
}

func NewPlatformSyncService(
	syncer syncing.Syncer,
	states repository.OAuthStateRepository,
	cfg *config.Config,
) *PlatformSyncService {
	syncConfig := PlatformSyncConfig{
		CronSchedule: cfg.Sync.CronSchedule,
		SyncEnabled:  cfg.Sync.Enabled,
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Platform sync scheduler configured")

	return &PlatformSyncService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    syncConfig,
		syncer:    syncer,
		states:    states,
	}
}

func (s *PlatformSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.Info("Platform sync scheduler disabled by configuration")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Starting platform sync scheduler")

	if _, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllPlatforms(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling platform sync: %w", err)
	}

	if _, err := s.scheduler.Every(stateCleanupEvery).Do(func() {
		s.cleanupStates(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling oauth state cleanup: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Stopping platform sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllPlatforms skips the tick when the previous run has not finished.
func (s *PlatformSyncService) syncAllPlatforms(ctx context.Context) {
	if !s.beginSync() {
		log.L.Info("Platform sync already running, skipping")
		return
	}
	s.runSync(ctx)
}

// beginSync claims the running flag; only one caller wins.
func (s *PlatformSyncService) beginSync() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

func (s *PlatformSyncService) runSync(ctx context.Context) {
	report, err := s.syncer.SyncAllUsers(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()

	if err != nil {
		s.lastError = err.Error()
		log.L.WithError(err).Error("Scheduled platform sync failed")
		return
	}

	s.lastError = ""
	s.lastReport = report
}

func (s *PlatformSyncService) cleanupStates(ctx context.Context) {
	deleted, err := s.states.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.L.WithError(err).Warn("Failed to prune expired oauth states")
		return
	}
	if deleted > 0 {
		log.L.WithField("deleted", deleted).Info("Pruned expired oauth states")
	}
}

// TriggerManualSync starts a run in the background unless one is active.
func (s *PlatformSyncService) TriggerManualSync() bool {
	if !s.beginSync() {
		log.L.Info("Platform sync already running, ignoring manual request")
		return false
	}

	log.L.Info("Starting manual platform sync")
	go s.runSync(context.Background())
	return true
}

func (s *PlatformSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
	if s.lastError != "" {
		status["last_error"] = s.lastError
	}
	if s.lastReport != nil {
		status["last_users_processed"] = s.lastReport.UsersProcessed
		status["last_users_failed"] = s.lastReport.UsersFailed
		status["last_campaigns_synced"] = s.lastReport.TotalCampaigns
	}
	return status
}
