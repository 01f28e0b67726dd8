package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// CronSecret guards timer-invoked endpoints with a shared bearer secret.
// An unset secret rejects every call.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			if secret == "" || provided == "" ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				logrus.WithField("path", r.URL.Path).Warn("Rejected cron call with missing or invalid secret")
				apiErrors.WriteError(w, apiErrors.ErrInvalidCronSecret, "unauthorized", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
