package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	Meta       Meta       `mapstructure:",squash"`
	Google     Google     `mapstructure:",squash"`
	LinkedIn   LinkedIn   `mapstructure:",squash"`
	Shopify    Shopify    `mapstructure:",squash"`
	TikTok     TikTok     `mapstructure:",squash"`
	OAuth      OAuth      `mapstructure:",squash"`
	Sync       Sync       `mapstructure:",squash"`
	Automation Automation `mapstructure:",squash"`
	Redis      Redis      `mapstructure:",squash"`
	Sentry     Sentry     `mapstructure:",squash"`
	SecretKey  string     `mapstructure:"secret_key"`
}

type App struct {
	LogLevel       string   `mapstructure:"log_level"`
	URL            string   `mapstructure:"next_public_app_url"`
	Env            string   `mapstructure:"app_env"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

type Auth struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CronSecret    string        `mapstructure:"cron_secret"`
	EncryptionKey string        `mapstructure:"encryption_key"`
}

type Meta struct {
	BaseURL   string `mapstructure:"meta_base_url"`
	URL       string `mapstructure:"-"`
	Version   string `mapstructure:"meta_version"`
	DialogURL string `mapstructure:"meta_dialog_url"`
	AppID     string `mapstructure:"meta_app_id"`
	AppSecret string `mapstructure:"meta_app_secret"`
}

type Google struct {
	ClientID        string `mapstructure:"google_client_id"`
	ClientSecret    string `mapstructure:"google_client_secret"`
	DeveloperToken  string `mapstructure:"google_developer_token"`
	LoginCustomerID string `mapstructure:"google_login_customer_id"`
	AdsBaseURL      string `mapstructure:"google_ads_base_url"`
	AdsVersion      string `mapstructure:"google_ads_api_version"`
	AuthURL         string `mapstructure:"google_auth_url"`
	TokenURL        string `mapstructure:"google_token_url"`
	UserInfoURL     string `mapstructure:"google_userinfo_url"`
}

type LinkedIn struct {
	ClientID     string `mapstructure:"linkedin_client_id"`
	ClientSecret string `mapstructure:"linkedin_client_secret"`
	APIVersion   string `mapstructure:"linkedin_api_version"`
	AuthURL      string `mapstructure:"linkedin_auth_url"`
	TokenURL     string `mapstructure:"linkedin_token_url"`
	APIBaseURL   string `mapstructure:"linkedin_api_base_url"`
}

type Shopify struct {
	APIKey     string `mapstructure:"shopify_api_key"`
	APISecret  string `mapstructure:"shopify_api_secret"`
	APIVersion string `mapstructure:"shopify_api_version"`
	Scheme     string `mapstructure:"shopify_scheme"`
}

type TikTok struct {
	AppID      string `mapstructure:"tiktok_app_id"`
	AppSecret  string `mapstructure:"tiktok_app_secret"`
	AuthURL    string `mapstructure:"tiktok_auth_url"`
	APIBaseURL string `mapstructure:"tiktok_api_base_url"`
}

type OAuth struct {
	StateTTL            time.Duration `mapstructure:"oauth_state_ttl"`
	StateStore          string        `mapstructure:"oauth_state_store"`
	SettingsPath        string        `mapstructure:"oauth_settings_path"`
	StartRatePerMinute  int           `mapstructure:"oauth_start_rate_per_minute"`
	SyncTriggerTimeout  time.Duration `mapstructure:"oauth_sync_trigger_timeout"`
	PlatformHTTPTimeout time.Duration `mapstructure:"platform_http_timeout"`
}

type Sync struct {
	CronSchedule       string        `mapstructure:"sync_cron"`
	Enabled            bool          `mapstructure:"sync_enabled"`
	MaxConcurrentUsers int           `mapstructure:"sync_max_concurrent_users"`
	MaxRetries         int           `mapstructure:"sync_max_retries"`
	RetryDelay         time.Duration `mapstructure:"sync_retry_delay"`
	MaxReportedErrors  int           `mapstructure:"sync_max_reported_errors"`
}

type Automation struct {
	CronSchedule string `mapstructure:"automation_cron"`
	Enabled      bool   `mapstructure:"automation_enabled"`
	Timezone     string `mapstructure:"automation_timezone"`
}

type Redis struct {
	URL string `mapstructure:"redis_url"`
}

type Sentry struct {
	DSN string `mapstructure:"sentry_dsn"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("NEXT_PUBLIC_APP_URL", "http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/growzzy?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("CRON_SECRET", "")
	viper.SetDefault("ENCRYPTION_KEY", "")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_DIALOG_URL", "https://www.facebook.com")
	viper.SetDefault("META_APP_ID", "")
	viper.SetDefault("META_APP_SECRET", "")

	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_DEVELOPER_TOKEN", "")
	viper.SetDefault("GOOGLE_LOGIN_CUSTOMER_ID", "")
	viper.SetDefault("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com")
	viper.SetDefault("GOOGLE_ADS_API_VERSION", "v17")
	viper.SetDefault("GOOGLE_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth")
	viper.SetDefault("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token")
	viper.SetDefault("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v2/userinfo")

	viper.SetDefault("LINKEDIN_CLIENT_ID", "")
	viper.SetDefault("LINKEDIN_CLIENT_SECRET", "")
	viper.SetDefault("LINKEDIN_API_VERSION", "202401")
	viper.SetDefault("LINKEDIN_AUTH_URL", "https://www.linkedin.com/oauth/v2/authorization")
	viper.SetDefault("LINKEDIN_TOKEN_URL", "https://www.linkedin.com/oauth/v2/accessToken")
	viper.SetDefault("LINKEDIN_API_BASE_URL", "https://api.linkedin.com")

	viper.SetDefault("SHOPIFY_API_KEY", "")
	viper.SetDefault("SHOPIFY_API_SECRET", "")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("SHOPIFY_SCHEME", "https")

	viper.SetDefault("TIKTOK_APP_ID", "")
	viper.SetDefault("TIKTOK_APP_SECRET", "")
	viper.SetDefault("TIKTOK_AUTH_URL", "https://business-api.tiktok.com/portal/auth")
	viper.SetDefault("TIKTOK_API_BASE_URL", "https://business-api.tiktok.com/open_api/v1.3")

	viper.SetDefault("OAUTH_STATE_TTL", "10m")
	viper.SetDefault("OAUTH_STATE_STORE", "postgres") // postgres | redis
	viper.SetDefault("OAUTH_SETTINGS_PATH", "/dashboard/settings")
	viper.SetDefault("OAUTH_START_RATE_PER_MINUTE", 20)
	viper.SetDefault("OAUTH_SYNC_TRIGGER_TIMEOUT", "5m")
	viper.SetDefault("PLATFORM_HTTP_TIMEOUT", "30s")

	viper.SetDefault("SYNC_CRON", "0 */6 * * *")
	viper.SetDefault("SYNC_ENABLED", false)
	viper.SetDefault("SYNC_MAX_CONCURRENT_USERS", 3)
	viper.SetDefault("SYNC_MAX_RETRIES", 3)
	viper.SetDefault("SYNC_RETRY_DELAY", "5s")
	viper.SetDefault("SYNC_MAX_REPORTED_ERRORS", 10)

	viper.SetDefault("AUTOMATION_CRON", "*/15 * * * *")
	viper.SetDefault("AUTOMATION_ENABLED", false)
	viper.SetDefault("AUTOMATION_TIMEZONE", "UTC")

	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("SENTRY_DSN", "")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Using variables loaded by godotenv (viper could not read .env): ", err)
	} else {
		logrus.Info(".env file read by viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.App.URL = strings.TrimRight(config.App.URL, "/")
	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// OAuthRedirectURI is the callback URL registered with each provider.
func (c *Config) OAuthRedirectURI(platform string) string {
	return fmt.Sprintf("%s/api/oauth/%s/callback", c.App.URL, platform)
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Could not resolve working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Trying to load .env from: ", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info(".env loaded from: ", location)
			return
		}
	}

	logrus.Warn("No .env file found in known locations")
}
