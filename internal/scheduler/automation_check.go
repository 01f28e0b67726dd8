package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/usecases/automating"
	"github.com/growzzy/growzzy-api/pkg/log"
)

type AutomationCheckConfig struct {
	CronSchedule string
	Enabled      bool
}

type AutomationCheckService struct {
	scheduler *gocron.Scheduler
	config    AutomationCheckConfig
	automator automating.Automator

	checkMutex           sync.Mutex
	checkRunning         bool
	lastCheckStartedAt   time.Time
	lastCheckCompletedAt time.Time
	lastChecked          int
	lastExecuted         int
	lastError            string
}

func NewAutomationCheckService(automator automating.Automator, cfg *config.Config) *AutomationCheckService {
	checkConfig := AutomationCheckConfig{
		CronSchedule: cfg.Automation.CronSchedule,
		Enabled:      cfg.Automation.Enabled,
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": checkConfig.CronSchedule,
		"enabled":       checkConfig.Enabled,
	}).Info("Automation check scheduler configured")

	return &AutomationCheckService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    checkConfig,
		automator: automator,
	}
}

func (s *AutomationCheckService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("Automation check scheduler disabled by configuration")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Starting automation check scheduler")

	if _, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.checkAutomations(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling automation check: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Stopping automation check scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *AutomationCheckService) checkAutomations(ctx context.Context) {
	s.checkMutex.Lock()
	if s.checkRunning {
		s.checkMutex.Unlock()
		log.L.Info("Automation check already running, skipping")
		return
	}
	s.checkRunning = true
	s.lastCheckStartedAt = time.Now()
	s.checkMutex.Unlock()

	report, err := s.automator.CheckAutomations(ctx)

	s.checkMutex.Lock()
	defer s.checkMutex.Unlock()
	s.checkRunning = false
	s.lastCheckCompletedAt = time.Now()

	if err != nil {
		s.lastError = err.Error()
		log.L.WithError(err).Error("Scheduled automation check failed")
		return
	}

	s.lastError = ""
	s.lastChecked = report.Checked
	s.lastExecuted = report.Executed
}

func (s *AutomationCheckService) GetStatus() map[string]any {
	s.checkMutex.Lock()
	defer s.checkMutex.Unlock()

	status := map[string]any{
		"automation_enabled":      s.config.Enabled,
		"automation_cron":         s.config.CronSchedule,
		"check_running":           s.checkRunning,
		"last_check_started_at":   s.lastCheckStartedAt,
		"last_check_completed_at": s.lastCheckCompletedAt,
		"last_checked":            s.lastChecked,
		"last_executed":           s.lastExecuted,
	}
	if s.lastError != "" {
		status["last_error"] = s.lastError
	}
	return status
}
