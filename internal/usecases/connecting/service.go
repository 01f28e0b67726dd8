package connecting

import (
	"context"
	"errors"

	"github.com/growzzy/growzzy-api/infrastructure/repository"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
)

var ErrConnectionNotFound = errors.New("no active connection for platform")

//go:generate mockgen -source=service.go -destination=mocks/connection_manager_mock.go -package=mocks
type ConnectionManager interface {
	List(ctx context.Context, userID string) ([]*domain.PlatformConnection, error)
	Disconnect(ctx context.Context, userID, rawPlatform, accountID string) (int64, error)
}

type Service struct {
	connections repository.ConnectionRepository
}

func NewService(connections repository.ConnectionRepository) *Service {
	return &Service{
		connections: connections,
	}
}

// List returns every connection of the user. Tokens never serialize.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.PlatformConnection, error) {
	return s.connections.ListByUser(ctx, userID)
}

// Disconnect deactivates the user's connections to a platform, or only the
// given account when accountID is set. Rows are kept.
func (s *Service) Disconnect(ctx context.Context, userID, rawPlatform, accountID string) (int64, error) {
	platform, err := domain.ParsePlatform(rawPlatform)
	if err != nil {
		return 0, err
	}

	affected, err := s.connections.Deactivate(ctx, domain.DisconnectRequest{
		UserID:    userID,
		Platform:  platform,
		AccountID: accountID,
	})
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrConnectionNotFound
	}

	log.L.WithContext(ctx).WithFields(log.Fields{
		"user_id":    userID,
		"platform":   platform,
		"account_id": accountID,
		"count":      affected,
	}).Info("Platform disconnected")

	return affected, nil
}

var _ ConnectionManager = (*Service)(nil)
