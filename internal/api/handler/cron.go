package handler

import (
	"net/http"

	"github.com/growzzy/growzzy-api/internal/usecases/automating"
	"github.com/growzzy/growzzy-api/internal/usecases/syncing"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

// StatusReporter is implemented by the in-process schedulers.
type StatusReporter interface {
	GetStatus() map[string]any
}

// ManualSyncTrigger starts a background run of the platform sync.
type ManualSyncTrigger interface {
	TriggerManualSync() bool
}

// CronJobServices groups what the timer-invoked endpoints need.
type CronJobServices struct {
	Syncer          syncing.Syncer
	Automator       automating.Automator
	SyncTrigger     ManualSyncTrigger
	PlatformSync    StatusReporter
	AutomationCheck StatusReporter
}

// SyncAllPlatforms runs the cron fan-out inline and returns its report.
// With ?async=true the run is handed to the scheduler and the call returns 202.
func SyncAllPlatforms(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - SyncAllPlatforms")

		if r.URL.Query().Get("async") == "true" && services.SyncTrigger != nil {
			if !services.SyncTrigger.TriggerManualSync() {
				_ = utils.WriteJSON(w, http.StatusConflict, map[string]any{
					"success": false,
					"message": "sync already running",
				})
				return
			}

			_ = utils.WriteJSON(w, http.StatusAccepted, map[string]any{
				"success": true,
				"message": "sync started",
			})
			return
		}

		report, err := services.Syncer.SyncAllUsers(r.Context())
		if err != nil {
			logServerError(r, err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "sync failed", nil)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, report)
	}
}

func CheckAutomations(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - CheckAutomations")

		report, err := services.Automator.CheckAutomations(r.Context())
		if err != nil {
			logServerError(r, err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "automation check failed", nil)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, report)
	}
}

func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.PlatformSync != nil {
			status["platform_sync"] = services.PlatformSync.GetStatus()
		}
		if services.AutomationCheck != nil {
			status["automation_check"] = services.AutomationCheck.GetStatus()
		}

		_ = utils.WriteJSON(w, http.StatusOK, status)
	}
}
