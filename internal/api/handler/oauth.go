package handler

import (
	"net/http"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/internal/usecases/oauthing"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
	"github.com/julienschmidt/httprouter"
)

// StartOAuth answers with the provider authorization URL as JSON.
func StartOAuth(service oauthing.OAuthenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - StartOAuth")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req domain.OAuthStartRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		resp, err := service.Start(r.Context(), claims.UserID, req)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, resp)
	}
}

// StartOAuthRedirect is the browser flavour of StartOAuth.
func StartOAuthRedirect(service oauthing.OAuthenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - StartOAuthRedirect")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		req := domain.OAuthStartRequest{
			Platform: httprouter.ParamsFromContext(r.Context()).ByName("platform"),
			Shop:     r.URL.Query().Get("shop"),
		}

		resp, err := service.Start(r.Context(), claims.UserID, req)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		http.Redirect(w, r, resp.AuthURL, http.StatusFound)
	}
}

// OAuthCallback always redirects back to the settings page, with either
// success or error in the query string.
func OAuthCallback(service oauthing.OAuthenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := httprouter.ParamsFromContext(r.Context()).ByName("platform")
		log.L.WithContext(r.Context()).WithField("platform", platform).Info("INIT - OAuthCallback")

		target, _ := service.Callback(r.Context(), platform, domain.NewOAuthCallback(r.URL.Query()))
		http.Redirect(w, r, target, http.StatusFound)
	}
}
