package handler

import (
	"net/http"

	"github.com/growzzy/growzzy-api/internal/api/handler/router"
	"github.com/growzzy/growzzy-api/internal/usecases/authenticating"
	"github.com/growzzy/growzzy-api/internal/usecases/automating"
	"github.com/growzzy/growzzy-api/internal/usecases/campaigning"
	"github.com/growzzy/growzzy-api/internal/usecases/connecting"
	"github.com/growzzy/growzzy-api/internal/usecases/oauthing"
	"github.com/growzzy/growzzy-api/internal/usecases/syncing"
	"github.com/growzzy/growzzy-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Authentication(service authenticating.Authenticator, secureCookie bool) []router.Route {
	return []router.Route{
		{
			Path:    "/api/auth/register",
			Method:  http.MethodPost,
			Handler: Register(service),
		},
		{
			Path:    "/api/auth/login",
			Method:  http.MethodPost,
			Handler: Login(service, secureCookie),
		},
		{
			Path:    "/api/auth/logout",
			Method:  http.MethodPost,
			Handler: Logout(secureCookie),
		},
		{
			Path:    "/api/auth/me",
			Method:  http.MethodGet,
			Handler: GetMe(service),
		},
	}
}

// OAuth registers the start and callback routes. Only the start routes are
// rate limited; callbacks are driven by the provider.
func OAuth(service oauthing.OAuthenticator, startRatePerMinute int) []router.Route {
	limited := []router.Middleware{middleware.RateLimitByUser(startRatePerMinute)}

	starts := router.Group(limited,
		router.Route{
			Path:    "/api/oauth/start",
			Method:  http.MethodPost,
			Handler: StartOAuth(service),
		},
		router.Route{
			Path:    "/api/oauth/:platform/start",
			Method:  http.MethodGet,
			Handler: StartOAuthRedirect(service),
		},
	)

	return append(starts, router.Route{
		Path:    "/api/oauth/:platform/callback",
		Method:  http.MethodGet,
		Handler: OAuthCallback(service),
	})
}

func Connections(manager connecting.ConnectionManager, syncer syncing.Syncer) []router.Route {
	return []router.Route{
		{
			Path:    "/api/connections",
			Method:  http.MethodGet,
			Handler: ListConnections(manager),
		},
		{
			Path:    "/api/connections/:platform",
			Method:  http.MethodDelete,
			Handler: DisconnectPlatform(manager),
		},
		{
			Path:    "/api/connections/:id/sync",
			Method:  http.MethodPost,
			Handler: SyncConnection(syncer),
		},
	}
}

func Campaigns(service campaigning.Campaigner) []router.Route {
	return []router.Route{
		{
			Path:    "/api/campaigns",
			Method:  http.MethodGet,
			Handler: ListCampaigns(service),
		},
		{
			Path:    "/api/campaigns/:id/pause",
			Method:  http.MethodPost,
			Handler: PauseCampaign(service),
		},
		{
			Path:    "/api/campaigns/:id/resume",
			Method:  http.MethodPost,
			Handler: ResumeCampaign(service),
		},
		{
			Path:    "/api/campaigns/:id/creatives",
			Method:  http.MethodPost,
			Handler: PublishCreative(service),
		},
	}
}

func Automations(service automating.Automator) []router.Route {
	return []router.Route{
		{
			Path:    "/api/automations",
			Method:  http.MethodPost,
			Handler: CreateAutomation(service),
		},
		{
			Path:    "/api/automations",
			Method:  http.MethodGet,
			Handler: ListAutomations(service),
		},
		{
			Path:    "/api/automations/logs",
			Method:  http.MethodGet,
			Handler: ListAutomationLogs(service),
		},
		{
			Path:    "/api/automations/:id/run",
			Method:  http.MethodPost,
			Handler: RunAutomation(service),
		},
	}
}

func CronJobs(services CronJobServices, cronSecret string) []router.Route {
	return router.Group([]router.Middleware{middleware.CronSecret(cronSecret)},
		router.Route{
			Path:    "/api/cron/sync-all-platforms",
			Method:  http.MethodPost,
			Handler: SyncAllPlatforms(services),
		},
		router.Route{
			Path:    "/api/cron/check-automations",
			Method:  http.MethodPost,
			Handler: CheckAutomations(services),
		},
		router.Route{
			Path:    "/api/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	)
}
