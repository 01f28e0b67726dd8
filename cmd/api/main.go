package main

import (
	"context"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/growzzy/growzzy-api/infrastructure/database/postgres"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/registry"
	"github.com/growzzy/growzzy-api/infrastructure/migration"
	"github.com/growzzy/growzzy-api/infrastructure/repository"
	"github.com/growzzy/growzzy-api/internal/api"
	"github.com/growzzy/growzzy-api/internal/api/handler"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/scheduler"
	"github.com/growzzy/growzzy-api/internal/usecases/authenticating"
	"github.com/growzzy/growzzy-api/internal/usecases/automating"
	"github.com/growzzy/growzzy-api/internal/usecases/campaigning"
	"github.com/growzzy/growzzy-api/internal/usecases/connecting"
	"github.com/growzzy/growzzy-api/internal/usecases/oauthing"
	"github.com/growzzy/growzzy-api/internal/usecases/syncing"
	"github.com/growzzy/growzzy-api/pkg/secure"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level %q, using info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to %s", logLevel)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.App.Env,
		}); err != nil {
			logrus.WithError(err).Warn("Sentry disabled")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.Up(pgConn.DB); err != nil {
			logrus.WithError(err).Fatal("Could not apply database migrations")
		}
	}

	cipher := secure.NewCipher(cfg.Auth.EncryptionKey)
	if strings.TrimSpace(cfg.Auth.EncryptionKey) == "" {
		logrus.Warn("ENCRYPTION_KEY is empty, platform tokens are stored in plain text")
	}

	userRepo := repository.NewUserRepository(pgConn)
	connectionRepo := repository.NewConnectionRepository(pgConn, cipher)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	automationRepo := repository.NewAutomationRepository(pgConn)
	automationLogRepo := repository.NewAutomationLogRepository(pgConn)
	stateRepo := stateStore(ctx, cfg, pgConn)

	httpClient := &http.Client{Timeout: cfg.OAuth.PlatformHTTPTimeout}
	platforms := registry.New(cfg, httpClient)

	authenticator := authenticating.NewService(userRepo, cfg)
	syncService := syncing.NewService(cfg, connectionRepo, campaignRepo, platforms)
	oauthService := oauthing.NewService(cfg, stateRepo, connectionRepo, platforms, syncService)
	connectionService := connecting.NewService(connectionRepo)
	campaignService := campaigning.NewService(campaignRepo, connectionRepo, platforms)
	automationService := automating.NewService(cfg, automationRepo, automationLogRepo, campaignRepo, connectionRepo, platforms)

	platformSyncService := scheduler.NewPlatformSyncService(syncService, stateRepo, cfg)
	automationCheckService := scheduler.NewAutomationCheckService(automationService, cfg)

	if err := platformSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Could not start the platform sync scheduler")
	} else {
		logrus.Info("Platform sync scheduler started")
	}

	if err := automationCheckService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Could not start the automation check scheduler")
	} else {
		logrus.Info("Automation check scheduler started")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		OAuth:         oauthService,
		Connections:   connectionService,
		Syncer:        syncService,
		Campaigns:     campaignService,
		Automations:   automationService,
		Cron: handler.CronJobServices{
			SyncTrigger:     platformSyncService,
			PlatformSync:    platformSyncService,
			AutomationCheck: automationCheckService,
		},
		DB: pgConn,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	_ = os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Could not connect to PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}

// stateStore picks where pending OAuth states live. Redis falls back to
// Postgres when it cannot be reached at boot.
func stateStore(ctx context.Context, cfg *config.Config, pgConn *postgres.Connection) repository.OAuthStateRepository {
	if cfg.OAuth.StateStore != "redis" {
		return repository.NewOAuthStateRepository(pgConn)
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logrus.WithError(err).Warn("Invalid REDIS_URL, storing oauth states in PostgreSQL")
		return repository.NewOAuthStateRepository(pgConn)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, storing oauth states in PostgreSQL")
		_ = client.Close()
		return repository.NewOAuthStateRepository(pgConn)
	}

	logrus.Info("Storing oauth states in Redis")
	return repository.NewRedisOAuthStateRepository(client)
}
