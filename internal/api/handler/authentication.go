package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/internal/usecases/authenticating"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/middleware"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

func Register(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - Register")

		var req domain.RegisterRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		user, err := service.Register(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusCreated, user)
	}
}

// Login issues a session token both in the body and as an HttpOnly cookie.
func Login(service authenticating.Authenticator, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - Login")

		var req domain.LoginRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		token, err := service.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		ttl := service.SessionTTL()
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			Expires:  time.Now().Add(ttl),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		_ = utils.WriteJSON(w, http.StatusOK, LoginResponse{
			Token:     token,
			ExpiresIn: int64(ttl.Seconds()),
		})
	}
}

func Logout(secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - Logout")

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetMe returns the profile of the logged-in user.
func GetMe(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.L.WithContext(r.Context()).Info("INIT - GetMe")

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		user, err := service.GetUserProfile(r.Context(), claims.UserID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, user)
	}
}
