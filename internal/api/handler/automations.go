package handler

import (
	"net/http"
	"strconv"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/internal/usecases/automating"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

const (
	defaultLogsLimit = 50
	maxLogsLimit     = 200
)

func CreateAutomation(service automating.Automator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - CreateAutomation")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req domain.CreateAutomationRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		automation, err := service.Create(r.Context(), claims.UserID, req)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusCreated, automation)
	}
}

func ListAutomations(service automating.Automator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - ListAutomations")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		automations, err := service.List(r.Context(), claims.UserID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, map[string]any{
			"automations": automations,
		})
	}
}

func ListAutomationLogs(service automating.Automator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - ListAutomationLogs")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		limit, err := parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be a positive integer", nil)
			return
		}

		logs, err := service.Logs(r.Context(), claims.UserID, limit)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, map[string]any{
			"logs": logs,
		})
	}
}

// parseLimit defaults an empty limit and caps large ones.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLogsLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, errors.Errorf("invalid limit %d", limit)
	}

	return min(limit, maxLogsLimit), nil
}

// RunAutomation evaluates one automation on demand, ignoring its active flag.
func RunAutomation(service automating.Automator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		automationID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		log.L.WithContext(r.Context()).WithField("automation_id", automationID).Info("INIT - RunAutomation")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		result, err := service.RunOne(r.Context(), claims.UserID, automationID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, result)
	}
}
