package handler

import (
	"net/http"

	"github.com/growzzy/growzzy-api/internal/usecases/connecting"
	"github.com/growzzy/growzzy-api/internal/usecases/syncing"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
	"github.com/julienschmidt/httprouter"
)

func ListConnections(service connecting.ConnectionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - ListConnections")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		connections, err := service.List(r.Context(), claims.UserID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, map[string]any{
			"connections": connections,
		})
	}
}

// DisconnectPlatform deactivates every account of a platform, or a single
// one when account_id is given.
func DisconnectPlatform(service connecting.ConnectionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - DisconnectPlatform")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		platform := httprouter.ParamsFromContext(r.Context()).ByName("platform")
		accountID := r.URL.Query().Get("account_id")

		disconnected, err := service.Disconnect(r.Context(), claims.UserID, platform, accountID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"disconnected": disconnected,
		})
	}
}

func SyncConnection(service syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - SyncConnection")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		connectionID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		result, err := service.SyncConnection(r.Context(), claims.UserID, connectionID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, result)
	}
}
