package oauthing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/repository"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/metrics"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

const defaultSettingsPath = "/dashboard/settings"

// SyncTrigger is notified after a connection is saved. Implementations must
// not block the caller.
type SyncTrigger interface {
	TriggerUserSync(userID string)
}

//go:generate mockgen -source=service.go -destination=mocks/oauth_mock.go -package=mocks
type OAuthenticator interface {
	Start(ctx context.Context, userID string, req domain.OAuthStartRequest) (*domain.OAuthStartResponse, error)
	Callback(ctx context.Context, rawPlatform string, cb domain.OAuthCallback) (string, error)
}

type Service struct {
	cfg         *config.Config
	states      repository.OAuthStateRepository
	connections repository.ConnectionRepository
	registry    connector.Registry
	trigger     SyncTrigger
	now         func() time.Time
}

func NewService(
	cfg *config.Config,
	states repository.OAuthStateRepository,
	connections repository.ConnectionRepository,
	registry connector.Registry,
	trigger SyncTrigger,
) *Service {
	return &Service{
		cfg:         cfg,
		states:      states,
		connections: connections,
		registry:    registry,
		trigger:     trigger,
		now:         time.Now,
	}
}

func (s *Service) stateTTL() time.Duration {
	if s.cfg.OAuth.StateTTL <= 0 {
		return domain.DefaultOAuthStateTTL
	}
	return s.cfg.OAuth.StateTTL
}

// Start persists a fresh state and returns the provider authorization URL.
func (s *Service) Start(ctx context.Context, userID string, req domain.OAuthStartRequest) (*domain.OAuthStartResponse, error) {
	platform, err := domain.ParsePlatform(req.Platform)
	if err != nil {
		metrics.OAuthFlowsTotal.WithLabelValues(req.Platform, "start", "unsupported").Inc()
		return nil, NewOAuthError(ErrUnsupportedPlatform, apiErrors.ErrMissingRequiredData, req.Platform)
	}

	provider, ok := s.registry.Provider(platform)
	if !ok || !provider.Configured() {
		metrics.OAuthFlowsTotal.WithLabelValues(platform.String(), "start", "not_configured").Inc()
		return nil, NewOAuthError(ErrPlatformNotConfigured, apiErrors.ErrPlatformNotSupported, platform.String())
	}

	var shop string
	if platform == domain.PlatformShopify {
		normalized, valid := domain.NormalizeShopDomain(req.Shop)
		if !valid {
			return nil, NewOAuthError(ErrMissingParams, apiErrors.ErrInvalidFormat, "shop must be a *.myshopify.com domain")
		}
		shop = normalized
	}

	stateValue, err := utils.GenerateState()
	if err != nil {
		return nil, NewOAuthError(ErrStateStore, apiErrors.ErrInternalServer, err.Error())
	}

	now := s.now()
	state := &domain.OAuthState{
		State:       stateValue,
		Platform:    platform,
		UserID:      userID,
		Shop:        shop,
		RedirectURI: s.cfg.OAuthRedirectURI(platform.String()),
		ExpiresAt:   now.Add(s.stateTTL()),
		CreatedAt:   now,
	}

	authURL, err := provider.AuthorizationURL(state)
	if err != nil {
		return nil, NewOAuthError(ErrMissingParams, apiErrors.ErrInvalidRequest, err.Error())
	}

	if err := s.states.Save(ctx, state); err != nil {
		log.L.WithContext(ctx).WithFields(log.Fields{
			"platform": platform,
			"user_id":  userID,
			"error":    err.Error(),
		}).Error("failed to persist oauth state")
		metrics.OAuthFlowsTotal.WithLabelValues(platform.String(), "start", "error").Inc()
		return nil, NewOAuthError(ErrStateStore, apiErrors.ErrInternalServer, "")
	}

	metrics.OAuthFlowsTotal.WithLabelValues(platform.String(), "start", "success").Inc()

	return &domain.OAuthStartResponse{
		AuthURL:   authURL,
		State:     stateValue,
		Platform:  platform,
		ExpiresAt: state.ExpiresAt,
	}, nil
}

// Callback completes the flow and always returns the URL the browser is
// sent to. The error is non-nil when the connection was not saved.
func (s *Service) Callback(ctx context.Context, rawPlatform string, cb domain.OAuthCallback) (string, error) {
	conn, err := s.callback(ctx, rawPlatform, cb)
	logger := log.L.WithContext(ctx).WithField("platform", rawPlatform)

	if err != nil {
		metrics.OAuthFlowsTotal.WithLabelValues(rawPlatform, "callback", "error").Inc()
		logger.WithError(err).Warn("oauth callback failed")
		return s.redirectURL("error", errorMessage(err)), err
	}

	metrics.OAuthFlowsTotal.WithLabelValues(rawPlatform, "callback", "success").Inc()
	logger.WithFields(log.Fields{
		"user_id":       conn.UserID,
		"connection_id": conn.ID,
		"account_id":    conn.AccountID,
	}).Info("platform connected")

	s.notifySync(conn.UserID)

	return s.redirectURL("success", fmt.Sprintf("%s_connected", conn.Platform)), nil
}

func (s *Service) callback(ctx context.Context, rawPlatform string, cb domain.OAuthCallback) (*domain.PlatformConnection, error) {
	if cb.Error != "" {
		details := cb.ErrorDescription
		if details == "" {
			details = cb.Error
		}
		return nil, NewOAuthError(ErrProviderDenied, apiErrors.ErrInvalidRequest, details)
	}

	platform, err := domain.ParsePlatform(rawPlatform)
	if err != nil {
		return nil, NewOAuthError(ErrUnsupportedPlatform, apiErrors.ErrMissingRequiredData, rawPlatform)
	}

	if cb.Code == "" || cb.State == "" {
		return nil, NewOAuthError(ErrMissingParams, apiErrors.ErrMissingRequiredData, "")
	}

	// Consuming deletes the row, so a replayed or concurrent callback finds nothing.
	state, err := s.states.Consume(ctx, cb.State, platform)
	if err != nil {
		return nil, NewOAuthError(ErrInvalidState, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if state == nil {
		return nil, NewOAuthError(ErrInvalidState, apiErrors.ErrInvalidRequest, "")
	}
	if state.Expired(s.now()) {
		return nil, NewOAuthError(ErrExpiredState, apiErrors.ErrInvalidRequest, "")
	}

	provider, ok := s.registry.Provider(platform)
	if !ok {
		return nil, NewOAuthError(ErrUnsupportedPlatform, apiErrors.ErrPlatformNotSupported, platform.String())
	}

	if verifier, ok := provider.(connector.CallbackVerifier); ok {
		if err := verifier.VerifyCallback(cb.Query, state); err != nil {
			return nil, NewOAuthError(ErrCallbackRejected, apiErrors.ErrInvalidRequest, err.Error())
		}
	}

	token, err := provider.ExchangeCode(ctx, cb.Code, state)
	if err != nil {
		return nil, NewOAuthError(ErrTokenExchange, apiErrors.ErrUpstreamProvider, err.Error())
	}
	if token == nil || token.AccessToken == "" {
		return nil, NewOAuthError(ErrTokenExchange, apiErrors.ErrUpstreamProvider, "empty access token")
	}

	identity, err := provider.FetchIdentity(ctx, token, state)
	if err != nil {
		return nil, NewOAuthError(ErrIdentity, apiErrors.ErrUpstreamProvider, err.Error())
	}
	if identity == nil || identity.ID == "" {
		return nil, NewOAuthError(ErrIdentity, apiErrors.ErrUpstreamProvider, "no account returned")
	}

	conn := &domain.PlatformConnection{
		UserID:      state.UserID,
		Platform:    platform,
		AccountID:   identity.ID,
		AccountName: identity.Name,
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		Scopes:      token.Scopes,
		Active:      true,
	}
	if token.RefreshToken != "" {
		refresh := token.RefreshToken
		conn.RefreshToken = &refresh
	}

	saved, err := s.connections.Upsert(ctx, conn)
	if err != nil {
		return nil, NewOAuthError(ErrConnectionStore, apiErrors.ErrDatabaseOperation, err.Error())
	}

	return saved, nil
}

// notifySync is fire-and-forget; a failure here never reaches the browser.
func (s *Service) notifySync(userID string) {
	if s.trigger == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.L.WithFields(log.Fields{"user_id": userID, "error": r}).Error("sync trigger panicked")
		}
	}()

	s.trigger.TriggerUserSync(userID)
}

func (s *Service) redirectURL(key, value string) string {
	path := s.cfg.OAuth.SettingsPath
	if path == "" {
		path = defaultSettingsPath
	}
	return fmt.Sprintf("%s%s?tab=integrations&%s=%s", s.cfg.App.URL, path, key, url.QueryEscape(value))
}

// errorMessage is the text shown on the settings page. Storage details stay in the logs.
func errorMessage(err error) string {
	var oauthErr *OAuthError
	if !errors.As(err, &oauthErr) {
		return err.Error()
	}

	switch {
	case errors.Is(err, ErrConnectionStore), errors.Is(err, ErrStateStore):
		return oauthErr.Err.Error()
	case errors.Is(err, ErrInvalidState) && oauthErr.Code == apiErrors.ErrDatabaseOperation:
		return oauthErr.Err.Error()
	default:
		return oauthErr.Error()
	}
}

var _ OAuthenticator = (*Service)(nil)
