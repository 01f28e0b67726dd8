package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/growzzy/growzzy-api/internal/api/handler"
	"github.com/growzzy/growzzy-api/internal/api/handler/router"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/usecases/authenticating"
	"github.com/growzzy/growzzy-api/internal/usecases/automating"
	"github.com/growzzy/growzzy-api/internal/usecases/campaigning"
	"github.com/growzzy/growzzy-api/internal/usecases/connecting"
	"github.com/growzzy/growzzy-api/internal/usecases/oauthing"
	"github.com/growzzy/growzzy-api/internal/usecases/syncing"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/middleware"
	"github.com/justinas/alice"
)

const shutdownTimeout = 15 * time.Second

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Authenticator authenticating.Authenticator
	OAuth         oauthing.OAuthenticator
	Connections   connecting.ConnectionManager
	Syncer        syncing.Syncer
	Campaigns     campaigning.Campaigner
	Automations   automating.Automator
	Cron          handler.CronJobServices
	DB            handler.Pinger
}

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.Config, services Services) (*Server, error) {
	if services.Authenticator == nil {
		return nil, fmt.Errorf("authenticator is required")
	}

	cron := services.Cron
	if cron.Syncer == nil {
		cron.Syncer = services.Syncer
	}
	if cron.Automator == nil {
		cron.Automator = services.Automations
	}

	secureCookie := strings.HasPrefix(cfg.App.URL, "https://")

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.DB)...),
		router.WithRoutes(handler.Authentication(services.Authenticator, secureCookie)...),
		router.WithRoutes(handler.OAuth(services.OAuth, cfg.OAuth.StartRatePerMinute)...),
		router.WithRoutes(handler.Connections(services.Connections, services.Syncer)...),
		router.WithRoutes(handler.Campaigns(services.Campaigns)...),
		router.WithRoutes(handler.Automations(services.Automations)...),
		router.WithRoutes(handler.CronJobs(cron, cfg.Auth.CronSecret)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.App.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("Server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.L.Info("Interrupt signal received")
	case <-ctx.Done():
		log.L.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.WithField("timeout", shutdownTimeout.String()).Info("Starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Error during server shutdown")
		return err
	}

	log.L.Info("Server shut down")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.L.Info("HTTP server stopped")
	return nil
}
