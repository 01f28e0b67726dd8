package handler

import (
	"context"
	"net/http"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/internal/usecases/campaigning"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
	"github.com/julienschmidt/httprouter"
)

func ListCampaigns(service campaigning.Campaigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - ListCampaigns")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		filters := domain.CampaignFilters{UserID: claims.UserID}

		if raw := r.URL.Query().Get("platform"); raw != "" {
			platform, err := domain.ParsePlatform(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
				return
			}
			filters.Platform = &platform
		}

		if raw := r.URL.Query().Get("status"); raw != "" {
			status := domain.CampaignStatus(raw)
			if !status.IsValid() {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "invalid status filter", nil)
				return
			}
			filters.Status = &status
		}

		campaigns, err := service.List(r.Context(), filters)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, map[string]any{
			"campaigns": campaigns,
		})
	}
}

func PauseCampaign(service campaigning.Campaigner) http.HandlerFunc {
	return campaignStatusHandler("PauseCampaign", service.Pause)
}

func ResumeCampaign(service campaigning.Campaigner) http.HandlerFunc {
	return campaignStatusHandler("ResumeCampaign", service.Resume)
}

type campaignStatusFunc func(ctx context.Context, userID, campaignID string) (*domain.Campaign, error)

func campaignStatusHandler(name string, apply campaignStatusFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		log.L.WithContext(r.Context()).WithField("campaign_id", campaignID).Info("INIT - " + name)

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		campaign, err := apply(r.Context(), claims.UserID, campaignID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, campaign)
	}
}

func PublishCreative(service campaigning.Campaigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - PublishCreative")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var creative domain.Creative
		if err := utils.DecodeJSON(r, &creative); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		campaignID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		resp, err := service.PublishCreative(r.Context(), claims.UserID, campaignID, creative)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusCreated, resp)
	}
}
