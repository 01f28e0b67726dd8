package campaigning

import (
	"context"
	"errors"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/repository"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

var (
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrConnectionInactive = errors.New("campaign connection is not active")
	ErrInvalidCreative    = errors.New("invalid creative")
)

//go:generate mockgen -source=service.go -destination=mocks/campaigner_mock.go -package=mocks
type Campaigner interface {
	List(ctx context.Context, filters domain.CampaignFilters) ([]*domain.Campaign, error)
	Pause(ctx context.Context, userID, campaignID string) (*domain.Campaign, error)
	Resume(ctx context.Context, userID, campaignID string) (*domain.Campaign, error)
	PublishCreative(ctx context.Context, userID, campaignID string, creative domain.Creative) (*domain.PublishCreativeResponse, error)
}

type Service struct {
	campaigns   repository.CampaignRepository
	connections repository.ConnectionRepository
	registry    connector.Registry
}

func NewService(
	campaigns repository.CampaignRepository,
	connections repository.ConnectionRepository,
	registry connector.Registry,
) *Service {
	return &Service{
		campaigns:   campaigns,
		connections: connections,
		registry:    registry,
	}
}

func (s *Service) List(ctx context.Context, filters domain.CampaignFilters) ([]*domain.Campaign, error) {
	return s.campaigns.List(ctx, filters)
}

func (s *Service) Pause(ctx context.Context, userID, campaignID string) (*domain.Campaign, error) {
	return s.setStatus(ctx, userID, campaignID, domain.CampaignStatusPaused)
}

func (s *Service) Resume(ctx context.Context, userID, campaignID string) (*domain.Campaign, error) {
	return s.setStatus(ctx, userID, campaignID, domain.CampaignStatusActive)
}

// setStatus pushes the change to the platform first; the local row only
// changes when the platform accepted it.
func (s *Service) setStatus(ctx context.Context, userID, campaignID string, status domain.CampaignStatus) (*domain.Campaign, error) {
	campaign, c, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	if status == domain.CampaignStatusPaused {
		err = c.PauseCampaign(ctx, campaign.ExternalID)
	} else {
		err = c.ResumeCampaign(ctx, campaign.ExternalID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.campaigns.UpdateStatus(ctx, campaign.ID, status); err != nil {
		return nil, err
	}

	log.L.WithContext(ctx).WithFields(log.Fields{
		"user_id":     userID,
		"campaign_id": campaign.ID,
		"platform":    campaign.Platform,
		"status":      status,
	}).Info("Campaign status changed")

	campaign.Status = status
	return campaign, nil
}

func (s *Service) PublishCreative(ctx context.Context, userID, campaignID string, creative domain.Creative) (*domain.PublishCreativeResponse, error) {
	if _, err := utils.Validate(creative); err != nil {
		return nil, errors.Join(ErrInvalidCreative, err)
	}

	campaign, c, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	externalID, err := c.PublishCreative(ctx, creative, campaign.ExternalID)
	if err != nil {
		return nil, err
	}

	return &domain.PublishCreativeResponse{
		CampaignID: campaign.ID,
		Platform:   campaign.Platform,
		ExternalID: externalID,
	}, nil
}

func (s *Service) load(ctx context.Context, userID, campaignID string) (*domain.Campaign, connector.Connector, error) {
	campaign, err := s.campaigns.GetByID(ctx, userID, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if campaign == nil {
		return nil, nil, ErrCampaignNotFound
	}

	conn, err := s.connections.GetByID(ctx, campaign.ConnectionID)
	if err != nil {
		return nil, nil, err
	}
	if conn == nil || !conn.Active {
		return nil, nil, ErrConnectionInactive
	}

	return campaign, s.registry.Connector(conn), nil
}

var _ Campaigner = (*Service)(nil)
