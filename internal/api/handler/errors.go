package handler

import (
	"net/http"
	"strings"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/internal/usecases/authenticating"
	"github.com/growzzy/growzzy-api/internal/usecases/automating"
	"github.com/growzzy/growzzy-api/internal/usecases/campaigning"
	"github.com/growzzy/growzzy-api/internal/usecases/connecting"
	"github.com/growzzy/growzzy-api/internal/usecases/oauthing"
	"github.com/growzzy/growzzy-api/internal/usecases/syncing"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/middleware"
	"github.com/pkg/errors"
)

// handleServiceError maps a use case error onto an API error response.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		authErr       *authenticating.AuthError
		oauthErr      *oauthing.OAuthError
		automationErr *automating.AutomationError
		platformErr   *connector.APIError
	)

	switch {
	case errors.As(err, &authErr):
		writeCodedError(w, r, err, authErr.Code, authErr.Err, authErr.Error())

	case errors.As(err, &oauthErr):
		writeCodedError(w, r, err, oauthErr.Code, oauthErr.Err, oauthErr.Error())

	case errors.As(err, &automationErr):
		writeCodedError(w, r, err, automationErr.Code, automationErr.Err, automationErr.Error())

	case errors.Is(err, connector.ErrOperationNotSupported):
		apiErrors.WriteError(w, apiErrors.ErrOperationNotSupported, err.Error(), nil)

	case errors.As(err, &platformErr):
		log.L.WithContext(r.Context()).WithFields(log.Fields{
			"platform":    platformErr.Platform,
			"status_code": platformErr.StatusCode,
			"error":       platformErr.Body,
		}).Warn("Platform rejected the request")
		apiErrors.WriteError(w, apiErrors.ErrUpstreamProvider, "platform request failed", map[string]any{
			"platform":    platformErr.Platform,
			"status_code": platformErr.StatusCode,
		})

	case errors.Is(err, campaigning.ErrCampaignNotFound),
		errors.Is(err, syncing.ErrConnectionNotFound),
		errors.Is(err, connecting.ErrConnectionNotFound),
		errors.Is(err, automating.ErrAutomationNotFound):
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)

	case errors.Is(err, campaigning.ErrConnectionInactive),
		errors.Is(err, campaigning.ErrInvalidCreative):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)

	case errors.Is(err, domain.ErrUnsupportedPlatform):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)

	default:
		logServerError(r, err)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "internal server error", nil)
	}
}

// writeCodedError hides the wrapped details of server-side failures.
func writeCodedError(w http.ResponseWriter, r *http.Request, err error, code string, base error, message string) {
	if strings.HasPrefix(code, "SRV_") {
		logServerError(r, err)
		message = base.Error()
	}
	apiErrors.WriteError(w, code, message, nil)
}

func logServerError(r *http.Request, err error) {
	log.L.WithContext(r.Context()).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"error":  err.Error(),
	}).Error("Request failed")
}

// requireClaims writes a 401 and returns false when the request has no session.
func requireClaims(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "authentication required", nil)
		return nil, false
	}
	return claims, true
}
