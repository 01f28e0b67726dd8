package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitByUser limits requests per authenticated user per minute and
// falls back to the client IP. A non-positive limit disables limiting.
func RateLimitByUser(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				return "user:" + claims.UserID, nil
			}
			return httprate.KeyByIP(r)
		}),
	)
}
